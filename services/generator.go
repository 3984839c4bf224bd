package services

import (
	stdctx "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

const GENERATOR_SVC = "generator_svc"

const (
	defaultGeneratorTimeout = 60 * time.Second
	defaultGeneratorRPS     = 2.0
)

var ErrGeneration = errors.New("explanation generator failed")

type generateRequest struct {
	Persona   string `json:"persona"`
	Role      string `json:"role"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
	Prompt    string `json:"prompt"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// GeneratorService calls the external explanation generator over HTTP.
type GeneratorService struct {
	context.DefaultService

	url     string
	timeout time.Duration
	limiter *rate.Limiter

	monitoring *MonitoringService
}

func NewGeneratorService(url string, timeout time.Duration, rps float64) *GeneratorService {
	return &GeneratorService{
		url:     url,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), burstFor(rps)),
	}
}

func (svc GeneratorService) Id() string {
	return GENERATOR_SVC
}

func (svc *GeneratorService) Configure(ctx *context.Context) error {
	svc.url = os.Getenv("GENERATOR_URL")
	if svc.url == "" {
		svc.url = "http://localhost:8000/generate"
	}

	svc.timeout = defaultGeneratorTimeout
	if v := os.Getenv("GENERATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GENERATOR_TIMEOUT: %w", err)
		}
		svc.timeout = d
	}

	rps := defaultGeneratorRPS
	if v := os.Getenv("GENERATOR_RPS"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid GENERATOR_RPS %q", v)
		}
		rps = parsed
	}
	svc.limiter = rate.NewLimiter(rate.Limit(rps), burstFor(rps))

	return svc.DefaultService.Configure(ctx)
}

func (svc *GeneratorService) Start() error {
	if m, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoring = m
	}
	log.WithFields(log.Fields{
		"url":     svc.url,
		"timeout": svc.timeout.String(),
		"rps":     float64(svc.limiter.Limit()),
	}).Info("Explanation generator configured")
	return nil
}

func burstFor(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}

// Generate asks the generator to answer prompt in persona's voice. Any
// failure is returned as a 502 AppError wrapping ErrGeneration.
func (svc *GeneratorService) Generate(ctx stdctx.Context, persona catalog.Persona, prompt string) (string, error) {
	start := time.Now()
	text, err := svc.generate(ctx, persona, prompt)
	if svc.monitoring != nil {
		svc.monitoring.RecordGeneration(time.Since(start), err)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"persona": persona.Name,
			"error":   err.Error(),
		}).Warn("Explanation generation failed")
		return "", shared.NewBadGatewayError(fmt.Errorf("%w: %v", ErrGeneration, err), "Explanation generator failed")
	}
	return text, nil
}

func (svc *GeneratorService) generate(ctx stdctx.Context, persona catalog.Persona, prompt string) (string, error) {
	if err := svc.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttled: %w", err)
	}

	agent := fiber.Post(svc.url).
		JSONEncoder(shared.JSONMarshal).
		Timeout(svc.timeout).
		JSON(generateRequest{
			Persona:   persona.Name,
			Role:      persona.Role,
			Goal:      persona.Goal,
			Backstory: persona.Backstory,
			Prompt:    prompt,
		})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", fmt.Errorf("generator returned status %d", status)
	}

	var resp generateResponse
	if err := shared.JSONUnmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode generator response: %w", err)
	}
	if resp.Response == "" {
		return "", errors.New("generator returned an empty response")
	}
	return resp.Response, nil
}
