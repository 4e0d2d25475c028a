//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-gin-user-api/test/pact"

	userserver "github.com/Apurer/go-gin-user-api/go"
	usermemory "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-user-api/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/go-gin-user-api/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/shared/links"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestUserProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateUsersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			return nil, nil
		},
		pacttest.StateUserExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			if setup {
				app.seedUser(t, pacttest.ExistingUserID)
			}
			return nil, nil
		},
		pacttest.StateUserMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetUsers(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetUsers(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *usermemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := usermemory.NewRepository()
	service := userobs.New(userapp.NewService(repo, usermemory.NewIdempotencyStore()))

	linkGen := links.NewGenerator("http://localhost:8080")
	handlers := userserver.ApiHandleFunctions{
		UsersAPI: userserver.NewUsersAPI(service, nil, linkGen),
	}

	server := httptest.NewServer(userserver.NewRouter(handlers, linkGen))
	t.Cleanup(server.Close)

	return &contractProviderApp{
		repo:   repo,
		server: server,
	}
}

func (a *contractProviderApp) resetUsers(t testing.TB) {
	t.Helper()
	page, err := a.repo.GetPage(context.Background(), 1, 1000)
	require.NoError(t, err)
	for _, user := range page.Items {
		require.NoError(t, a.repo.Delete(context.Background(), user.ID))
	}
}

func (a *contractProviderApp) seedUser(t testing.TB, id string) {
	t.Helper()
	user, err := userdomain.NewUser("pactuser", "Pact", "User")
	require.NoError(t, err)
	user.ID = uuid.MustParse(id)
	_, err = a.repo.Upsert(context.Background(), user)
	require.NoError(t, err)
}
