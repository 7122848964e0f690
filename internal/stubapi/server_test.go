package stubapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/stubapi"
)

func TestStubAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "StubAPI Suite")
}

var _ = Describe("Server", func() {
	var (
		srv *stubapi.Server
		ts  *httptest.Server
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	BeforeEach(func() {
		var err error
		srv, err = stubapi.New(internal.StubConfig{
			DatabasePath: filepath.Join(GinkgoT().TempDir(), "stub.db"),
			JWTSecret:    "test-secret",
			TokenTTL:     time.Hour,
		}, log)
		Expect(err).ToNot(HaveOccurred())
		Expect(srv.SeedUser("admin", "Admin", "password", "admin", "users.manage,reservations.manage")).To(Succeed())
		ts = httptest.NewServer(srv.Handler())
	})

	AfterEach(func() {
		ts.Close()
	})

	login := func(username, password string) (*http.Response, map[string]any) {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
		Expect(err).ToNot(HaveOccurred())
		var decoded map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&decoded)).To(Succeed())
		resp.Body.Close()
		return resp, decoded
	}

	adminToken := func() string {
		resp, decoded := login("admin", "password")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		data := decoded["data"].(map[string]any)
		return data["token"].(string)
	}

	request := func(method, path, token string, payload any) (*http.Response, map[string]any) {
		var body io.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			Expect(err).ToNot(HaveOccurred())
			body = bytes.NewReader(raw)
		}
		req, err := http.NewRequest(method, ts.URL+path, body)
		Expect(err).ToNot(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		Expect(err).ToNot(HaveOccurred())
		var decoded map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&decoded)).To(Succeed())
		resp.Body.Close()
		return resp, decoded
	}

	Describe("login", func() {
		It("returns the profile and a token in the standard envelope", func() {
			resp, decoded := login("admin", "password")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decoded["status"]).To(Equal("success"))

			data := decoded["data"].(map[string]any)
			Expect(data["token"]).ToNot(BeEmpty())
			user := data["user"].(map[string]any)
			Expect(user["fullName"]).To(Equal("Admin"))
			role := user["role"].(map[string]any)
			Expect(role["name"]).To(Equal("admin"))
			Expect(role["permissions"]).To(ContainElement("users.manage"))
		})

		It("rejects bad credentials", func() {
			resp, decoded := login("admin", "wrong")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(decoded["status"]).To(Equal("error"))
			Expect(decoded["message"]).To(Equal("invalid username or password"))
		})

		It("rejects an unknown user with the same message", func() {
			resp, decoded := login("ghost", "password")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(decoded["message"]).To(Equal("invalid username or password"))
		})
	})

	Describe("entity routes", func() {
		It("refuses requests without a bearer token", func() {
			resp, decoded := request(http.MethodGet, "/api/v1/reservations", "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(decoded["message"]).To(Equal("missing bearer token"))
		})

		It("runs a full create, list, update, delete round trip", func() {
			token := adminToken()

			// create
			resp, decoded := request(http.MethodPost, "/api/v1/reservations", token, entity.Record{
				"reference":   "RSV-9",
				"clientName":  "Lina",
				"destination": "Istanbul",
				"checkIn":     "2026-09-10",
				"checkOut":    "2026-09-15",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			created := decoded["data"].(map[string]any)
			id := created["id"].(string)
			Expect(id).ToNot(BeEmpty())
			Expect(created["createdAt"]).ToNot(BeEmpty())

			// list
			resp, decoded = request(http.MethodGet, "/api/v1/reservations", token, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decoded["data"].([]any)).To(HaveLen(1))

			// update
			resp, decoded = request(http.MethodPut, "/api/v1/reservations/"+id, token, entity.Record{
				"status": "confirmed",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			updated := decoded["data"].(map[string]any)
			Expect(updated["status"]).To(Equal("confirmed"))
			Expect(updated["reference"]).To(Equal("RSV-9"))

			// delete
			resp, _ = request(http.MethodDelete, "/api/v1/reservations/"+id, token, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			resp, _ = request(http.MethodGet, "/api/v1/reservations/"+id, token, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("rejects an invalid payload with the accumulated messages", func() {
			resp, decoded := request(http.MethodPost, "/api/v1/reservations", adminToken(), entity.Record{
				"reference": "RSV-10",
			})

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			message := decoded["message"].(string)
			Expect(message).To(ContainSubstring("clientName is required"))
			Expect(message).To(ContainSubstring("checkOut is required"))
		})

		It("answers customer creation in the legacy envelope", func() {
			resp, decoded := request(http.MethodPost, "/api/v1/customers", adminToken(), entity.Record{
				"name": "Lina Haddad",
			})

			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(decoded).ToNot(HaveKey("status"))
			Expect(decoded["success"]).To(Equal(true))
			Expect(decoded["data"].(map[string]any)["name"]).To(Equal("Lina Haddad"))
		})
	})

	Describe("health", func() {
		It("reports healthy while the database is reachable", func() {
			resp, decoded := request(http.MethodGet, "/api/v1/health", "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decoded["status"]).To(Equal("success"))
		})
	})
})
