package services

import (
	"bytes"
	stdctx "context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/shared"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

const ANALYTICS_SVC = "analytics_svc"

const (
	ratingExportPrefix      = "exports/"
	ratingExportContentType = "application/x-ndjson"
	defaultExportURLTTL     = time.Hour
)

// ratingLog is satisfied by storage.JSONLRatingLog and
// repositories.RatingRepository.
type ratingLog interface {
	Append(r model.RatingRecord) error
	LoadAll() ([]model.RatingRecord, error)
}

type objectStore interface {
	UploadFile(ctx stdctx.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
	GetFileURL(ctx stdctx.Context, objectName string, expiry time.Duration) (string, error)
}

// AnalyticsService owns the rating log: appends, aggregate statistics and
// snapshot exports to object storage.
type AnalyticsService struct {
	context.DefaultService

	mode       string
	path       string
	urlTTL     time.Duration
	log        ratingLog
	objects    objectStore
	monitoring *MonitoringService
	now        func() time.Time
}

func NewAnalyticsService(ratings ratingLog, objects objectStore) *AnalyticsService {
	return &AnalyticsService{
		log:     ratings,
		objects: objects,
		urlTTL:  defaultExportURLTTL,
		now:     time.Now,
	}
}

func (svc AnalyticsService) Id() string {
	return ANALYTICS_SVC
}

func (svc *AnalyticsService) Configure(ctx *context.Context) error {
	svc.mode = strings.ToLower(os.Getenv("PROGRESS_STORE"))
	if svc.mode == "" {
		svc.mode = StoreDatabase
	}

	svc.path = os.Getenv("RATINGS_PATH")
	if svc.path == "" {
		svc.path = "ratings.json"
	}

	svc.urlTTL = defaultExportURLTTL
	if v := os.Getenv("RATINGS_EXPORT_URL_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RATINGS_EXPORT_URL_TTL: %w", err)
		}
		svc.urlTTL = d
	}

	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *AnalyticsService) Start() error {
	if svc.mode == StoreFile {
		svc.log = storage.NewJSONLRatingLog(svc.path)
	} else {
		db, ok := pickDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
		if !ok {
			return errors.New("analytics service requires a database service")
		}
		svc.log = repositories.NewRatingRepository(db.Db())
	}

	if m, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		svc.objects = m
	}
	if m, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoring = m
	}
	return nil
}

// Record appends one rating. The error is returned untouched so callers
// can withhold rewards.
func (svc *AnalyticsService) Record(r model.RatingRecord) error {
	if err := svc.log.Append(r); err != nil {
		log.WithFields(log.Fields{
			"persona": r.Persona,
			"user_id": r.UserID,
			"error":   err.Error(),
		}).Error("Failed to append rating")
		return err
	}
	if svc.monitoring != nil {
		svc.monitoring.RecordRating(r.Persona)
	}
	return nil
}

func (svc *AnalyticsService) Stats() (*storage.RatingStats, error) {
	records, err := svc.log.LoadAll()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to read ratings")
	}
	stats := storage.Summarize(records)
	return &stats, nil
}

// Export uploads a JSON-lines snapshot of the log and returns a presigned
// download URL.
func (svc *AnalyticsService) Export(ctx stdctx.Context) (*dto.RatingExportResponse, error) {
	if svc.objects == nil {
		return nil, shared.NewServiceUnavailableError(nil, "Object storage is not configured")
	}

	records, err := svc.log.LoadAll()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to read ratings")
	}

	var buf bytes.Buffer
	if err := storage.WriteRatings(&buf, records); err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode ratings")
	}

	now := svc.now().UTC()
	object := ratingExportPrefix + "ratings-" + now.Format("20060102T150405Z") + ".jsonl"

	if _, err := svc.objects.UploadFile(ctx, object, &buf, int64(buf.Len()), ratingExportContentType); err != nil {
		return nil, shared.NewBadGatewayError(err, "Failed to upload ratings export")
	}

	url, err := svc.objects.GetFileURL(ctx, object, svc.urlTTL)
	if err != nil {
		return nil, shared.NewBadGatewayError(err, "Failed to sign ratings export URL")
	}

	log.WithFields(log.Fields{
		"object":  object,
		"records": len(records),
	}).Info("Ratings exported")

	return &dto.RatingExportResponse{
		Object:    object,
		Records:   len(records),
		URL:       url,
		ExpiresAt: now.Add(svc.urlTTL),
	}, nil
}
