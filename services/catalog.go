package services

import (
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
)

// CatalogService owns the persona and snippet registry. A bad descriptor
// fails Configure, which stops the process before any learner is served.
type CatalogService struct {
	context.DefaultService

	path     string
	registry *catalog.Registry
}

const CATALOG_SVC = "catalog_svc"

func NewCatalogService(registry *catalog.Registry) *CatalogService {
	return &CatalogService{registry: registry}
}

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	svc.path = os.Getenv("CATALOG_PATH")

	registry, err := catalog.Load(svc.path)
	if err != nil {
		return err
	}
	svc.registry = registry

	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	source := svc.path
	if source == "" {
		source = "built-in"
	}
	log.WithFields(log.Fields{
		"source":   source,
		"personas": svc.registry.Count(),
	}).Info("Persona catalog loaded")
	return nil
}

func (svc *CatalogService) Registry() *catalog.Registry {
	return svc.registry
}
