package auth

import (
	"log/slog"

	"github.com/nattapongw/fieldservice/pkg/logger"
)

// Service resolves bearer tokens into actors. It does not issue
// tokens; the identity provider owns that side.
type Service struct {
	repo     RepositoryAPI
	verifier TokenVerifierAPI
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, verifier TokenVerifierAPI) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		logger:   logger.LoggerWrapper(),
	}
}

// Authenticate validates the token and loads the matching active
// employee. Every failure collapses to an auth error; callers never
// learn whether the token or the account was the problem.
func (s *Service) Authenticate(tokenString string) (*Actor, error) {
	claims, err := s.verifier.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	actor, err := s.repo.GetActorBySubject(claims.Subject)
	if err != nil {
		s.logger.Warn("actor lookup failed", "subject", claims.Subject, "error", err)
		return nil, ErrEmployeeNotFound
	}

	if !actor.IsActive {
		return nil, ErrEmployeeInactive
	}

	return actor, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.verifier.ValidateToken(tokenString)
}
