package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/gateway"
)

func TestGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Suite")
}

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *gateway.Client
		log     = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	newClient := func(token string, timeout time.Duration) *gateway.Client {
		return gateway.NewClient(gateway.Config{
			BaseURL: server.URL,
			Timeout: timeout,
		}, func() string { return token }, log)
	}

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("prefixes every path with /api/v1 and sends the bearer token", func() {
		var gotPath, gotAuth string
		handler = func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": []any{}})
		}
		client = newClient("tok-123", time.Second)

		var out []map[string]any
		err := client.Get(context.Background(), "/roles", &out)

		Expect(err).ToNot(HaveOccurred())
		Expect(gotPath).To(Equal("/api/v1/roles"))
		Expect(gotAuth).To(Equal("Bearer tok-123"))
	})

	It("omits the Authorization header when there is no token", func() {
		var gotAuth string
		handler = func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		}
		client = newClient("", time.Second)

		err := client.Get(context.Background(), "/ping", nil)

		Expect(err).ToNot(HaveOccurred())
		Expect(gotAuth).To(BeEmpty())
	})

	It("unmarshals the envelope data into the caller's type", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"data":   []map[string]any{{"id": "1", "name": "ops"}},
			})
		}
		client = newClient("tok", time.Second)

		var out []map[string]any
		err := client.Get(context.Background(), "/roles", &out)

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0]["name"]).To(Equal("ops"))
	})

	It("surfaces the backend's error message verbatim", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"status":  "error",
				"message": "reservation overlaps an existing booking",
			})
		}
		client = newClient("tok", time.Second)

		err := client.Post(context.Background(), "/reservations", map[string]any{}, nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeAPI))
		Expect(appErr.Message).To(Equal("reservation overlaps an existing booking"))
	})

	It("maps 401 to the unauthorized error type", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "token expired"})
		}
		client = newClient("tok", time.Second)

		err := client.Get(context.Background(), "/users", nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeUnauthorized))
		Expect(appErr.Message).To(Equal("token expired"))
	})

	It("maps 404 to the not-found error type", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "record not found"})
		}
		client = newClient("tok", time.Second)

		err := client.Delete(context.Background(), "/roles/nope")

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
	})

	It("accepts the legacy success envelope and still decodes its data", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"id": "c-1", "name": "Lina"},
			})
		}
		client = newClient("tok", time.Second)

		var out map[string]any
		err := client.Post(context.Background(), "/customers", map[string]any{"name": "Lina"}, &out)

		Expect(err).ToNot(HaveOccurred())
		Expect(out["id"]).To(Equal("c-1"))
	})

	It("treats a legacy failure envelope as an error", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "duplicate customer"})
		}
		client = newClient("tok", time.Second)

		err := client.Post(context.Background(), "/customers", map[string]any{}, nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Message).To(Equal("duplicate customer"))
	})

	It("turns a slow backend into a transport timeout error", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		}
		client = newClient("tok", 50*time.Millisecond)

		err := client.Get(context.Background(), "/reservations", nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeTransport))
		Expect(appErr.Code).To(Equal(internal.ErrCodeRequestTimeout))
	})

	It("reports an unreachable backend as a transport error", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {}
		client = newClient("tok", time.Second)
		server.Close()

		err := client.Get(context.Background(), "/roles", nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeTransport))
	})

	It("reports a non-JSON error body with its status code", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		}
		client = newClient("tok", time.Second)

		err := client.Get(context.Background(), "/roles", nil)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeAPI))
		Expect(appErr.Message).To(ContainSubstring("502"))
	})
})
