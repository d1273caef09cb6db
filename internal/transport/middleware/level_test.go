package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/nattapongw/fieldservice/internal/auth"
)

func voteRouter() chi.Router {
	r := chi.NewRouter()
	r.With(RequireLevel(auth.LevelTechnician)).Post("/polls/{id}/vote", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func postVoteAs(t *testing.T, router chi.Router, actor *auth.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/polls/5b7a2c10-3d4e-4f5a-8b6c-7d8e9f0a1b2c/vote", nil)
	if actor != nil {
		req = req.WithContext(auth.ContextWithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVoteGateRejectsReadOnlyActor(t *testing.T) {
	rec := postVoteAs(t, voteRouter(), &auth.Actor{
		EmployeeID: "emp-ro",
		RoleLevel:  auth.LevelReadOnly,
		IsActive:   true,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_PERMISSION_LEVEL")
}

func TestVoteGatePassesTechnician(t *testing.T) {
	rec := postVoteAs(t, voteRouter(), &auth.Actor{
		EmployeeID: "emp-tech",
		RoleLevel:  auth.LevelTechnician,
		IsActive:   true,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestVoteGateRequiresActor(t *testing.T) {
	rec := postVoteAs(t, voteRouter(), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
