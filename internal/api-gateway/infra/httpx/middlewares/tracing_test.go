package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors/constants"
)

func TestAttachTracingMetadata(t *testing.T) {
	var (
		requestID, idempKey string
		md                  metadata.MD
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ = r.Context().Value(constants.ContextKeyRequestID).(string)
		idempKey, _ = r.Context().Value(constants.ContextKeyIdempotencyKey).(string)
		md, _ = metadata.FromOutgoingContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/checkouts", nil)
	req.Header.Set("X-Idempotency-Key", "abc")
	middleware.RequestID(AttachTracingMetadata(next)).ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, requestID)
	assert.Equal(t, "abc", idempKey)
	assert.Equal(t, []string{requestID}, md.Get(constants.HeaderXRequestId))
	assert.Equal(t, []string{"abc"}, md.Get(constants.HeaderXIdempotencyKey))
}
