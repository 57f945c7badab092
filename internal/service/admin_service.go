package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jewelry-assistant-be/internal/config"
	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/internal/repository/unitofwork"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IAdminService backs the staff dashboard: credentials, conversation audit,
// and catalog health.
type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	GetSessions(ctx context.Context, page, limit int, activeOnly bool) (*dto.SessionListResponse, error)
	GetSessionTranscript(ctx context.Context, sessionId string) (*dto.SessionTranscriptResponse, error)
	GetRecommendationEvents(ctx context.Context, sessionId string) ([]dto.RecommendationEventItem, error)
	GetStats(ctx context.Context) (*dto.AssistantStatsResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        config.AdminConfig
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cfg config.AdminConfig) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

func (s *adminService) Login(_ context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	emailOk := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.cfg.Email)) == 1
	passwordOk := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password)) == 1
	if !emailOk || !passwordOk {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"email": req.Email,
		"role":  "admin",
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{
		AccessToken: signedToken,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (s *adminService) GetSessions(ctx context.Context, page, limit int, activeOnly bool) (*dto.SessionListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if activeOnly {
		specs = append(specs, specification.ActiveSessions{})
	}

	total, err := uow.ConversationSessionRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs, specification.OrderBy{Field: "updated_at", Desc: true})
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		specs = append(specs, specification.Pagination{Limit: limit, Offset: (page - 1) * limit})
	}

	sessions, err := uow.ConversationSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SessionListItem, len(sessions))
	for i, sess := range sessions {
		items[i] = dto.SessionListItem{
			Id:           sess.ID,
			CurrentState: sess.State,
			IsActive:     sess.Active,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		}
	}
	return &dto.SessionListResponse{Sessions: items, Total: total}, nil
}

func (s *adminService) GetSessionTranscript(ctx context.Context, sessionId string) (*dto.SessionTranscriptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.SessionTranscriptEntry, len(turns))
	for i, turn := range turns {
		entries[i] = dto.SessionTranscriptEntry{
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.CreatedAt,
		}
	}
	return &dto.SessionTranscriptResponse{SessionId: sessionId, Entries: entries}, nil
}

func (s *adminService) GetRecommendationEvents(ctx context.Context, sessionId string) ([]dto.RecommendationEventItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	events, err := uow.RecommendationEventRepository().FindBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RecommendationEventItem, len(events))
	for i, e := range events {
		items[i] = dto.RecommendationEventItem{
			Id:              e.Id.String(),
			SessionId:       e.SessionId,
			ProductId:       e.ProductId,
			SimilarityScore: e.Similarity,
			Tier:            e.Tier,
			Confidence:      e.Confidence,
			CreatedAt:       e.CreatedAt,
		}
	}
	return items, nil
}

func (s *adminService) GetStats(ctx context.Context) (*dto.AssistantStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalProducts, err := uow.ProductRepository().Count(ctx, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}
	indexed, err := uow.ProductEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	totalSessions, err := uow.ConversationSessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	activeSessions, err := uow.ConversationSessionRepository().Count(ctx, specification.ActiveSessions{})
	if err != nil {
		return nil, err
	}
	recommendations, err := uow.RecommendationEventRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AssistantStatsResponse{
		TotalProducts:   totalProducts,
		IndexedProducts: indexed,
		TotalSessions:   totalSessions,
		ActiveSessions:  activeSessions,
		Recommendations: recommendations,
	}, nil
}
