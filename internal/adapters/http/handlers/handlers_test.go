package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/mocks"
)

const (
	seedID   = "2ZgWqzDVq0ZuSvCuNQwJjblFbnZ"
	authorID = "2ZgX0bnnkyRvYGlADQv0Tm3cqG4"
	bookID   = "2ZgX0dfD1iTg2Ol9QMVKe8xwxTZ"
	custID   = "2ZgX0eJp4OMDVxh9xmBgtDXIHx7"
)

type testAPI struct {
	router  *gin.Engine
	catalog *mocks.MockCatalogService
	orders  *mocks.MockOrderService
	ids     *domain.SequenceGenerator
}

// newTestAPI wires both handlers under /api/v1 with a deterministic
// identifier sequence. ids yields the same sequence the mapper draws.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	seed := domain.MustParseID(seedID)
	in := mapper.NewInbound(domain.NewSequenceGenerator(seed))

	api := &testAPI{
		router:  gin.New(),
		catalog: mocks.NewMockCatalogService(t),
		orders:  mocks.NewMockOrderService(t),
		ids:     domain.NewSequenceGenerator(seed),
	}

	v1 := api.router.Group("/api/v1")
	NewCatalogHandler(CatalogHandlerConfig{Service: api.catalog, Mapper: in, DefaultPageSize: 2}).RegisterCatalogRoutes(v1)
	NewOrderHandler(api.orders, in).RegisterOrderRoutes(v1)

	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))

	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	return decode[dto.ErrorResponse](t, w)
}
