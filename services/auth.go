package services

import (
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type AuthService struct {
	context.DefaultService

	db          Database
	jwtSvc      *JWTService
	learnerRepo *repositories.LearnerRepository
	bcryptCost  int
}

const AUTH_SVC = "auth_svc"

var errInvalidCredentials = errors.New("invalid username or password")

// NewAuthService wires the service without the container, mainly for tests.
func NewAuthService(db Database, jwtSvc *JWTService, bcryptCost int) *AuthService {
	return &AuthService{
		db:          db,
		jwtSvc:      jwtSvc,
		learnerRepo: repositories.NewLearnerRepository(db.Db()),
		bcryptCost:  bcryptCost,
	}
}

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	svc.bcryptCost = bcrypt.DefaultCost
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	db, ok := pickDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
	if !ok {
		return errors.New("auth service requires a database service")
	}
	svc.db = db
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.learnerRepo = repositories.NewLearnerRepository(db.Db())
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := svc.learnerRepo.GetByUsername(username); err == nil {
		return nil, shared.NewConflictError(nil, "Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svc.db.HandleError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), svc.bcryptCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	learner, err := svc.learnerRepo.Create(username, string(hash))
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id":  learner.ID,
		"username": learner.Username,
	}).Info("Learner registered")

	return svc.issue(learner)
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	learner, err := svc.learnerRepo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(errInvalidCredentials, "Invalid username or password")
		}
		return nil, svc.db.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(learner.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(errInvalidCredentials, "Invalid username or password")
	}

	now := time.Now()
	if err := svc.learnerRepo.TouchLastLogin(learner.ID, now); err != nil {
		log.WithError(err).WithField("user_id", learner.ID).Warn("Failed to record last login")
	} else {
		learner.LastLogin = &now
	}

	return svc.issue(learner)
}

func (svc *AuthService) issue(learner *model.Learner) (*dto.LoginResponse, error) {
	pair, err := svc.jwtSvc.GenerateTokenPair(learner.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	return &dto.LoginResponse{
		TokenPair: *pair,
		Learner: dto.LearnerInfo{
			ID:          learner.ID,
			Username:    learner.Username,
			CreatedAt:   learner.CreatedAt,
			LastLoginAt: learner.LastLogin,
		},
	}, nil
}
