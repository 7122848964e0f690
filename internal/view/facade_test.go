package view_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/cache"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/view"
)

func TestView(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "View Suite")
}

// mockGateway backs the cache manager with in-memory collections.
type mockGateway struct {
	collections map[string][]entity.Record
	posts       int
}

func newMockGateway() *mockGateway {
	return &mockGateway{collections: make(map[string][]entity.Record)}
}

func (m *mockGateway) Get(ctx context.Context, path string, out any) error {
	*(out.(*[]entity.Record)) = append([]entity.Record(nil), m.collections[path]...)
	return nil
}

func (m *mockGateway) Post(ctx context.Context, path string, body, out any) error {
	m.posts++
	created := body.(entity.Record).Clone()
	created["id"] = "server-1"
	m.collections[path] = append(m.collections[path], created)
	*(out.(*entity.Record)) = created
	return nil
}

func (m *mockGateway) Put(ctx context.Context, path string, body, out any) error {
	*(out.(*entity.Record)) = body.(entity.Record)
	return nil
}

func (m *mockGateway) Delete(ctx context.Context, path string) error {
	return nil
}

var _ = Describe("Facade", func() {
	var (
		gw     *mockGateway
		caches *cache.Manager
		ctx    context.Context
		log    = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	BeforeEach(func() {
		gw = newMockGateway()
		caches = cache.NewManager(gw, nil, nil, log)
		ctx = context.Background()
	})

	It("rejects an unknown entity kind", func() {
		_, err := view.New(entity.Kind("spaceships"), caches, log)
		Expect(err).To(HaveOccurred())
	})

	Describe("uniqueness", func() {
		var facade *view.Facade

		BeforeEach(func() {
			gw.collections["/users"] = []entity.Record{
				{"id": "u-1", "username": "admin", "fullName": "Admin", "role": "admin"},
			}
			var err error
			facade, err = view.New(entity.KindUsers, caches, log)
			Expect(err).ToNot(HaveOccurred())
			_, err = facade.Load(ctx)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a duplicate username before the network call", func() {
			_, err := facade.Create(ctx, entity.Record{
				"username": "admin",
				"fullName": "Another Admin",
				"role":     "admin",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring(`username "admin" already exists`))
			Expect(gw.posts).To(Equal(0))
		})

		It("allows the same username on an update of that record", func() {
			_, err := facade.Update(ctx, "u-1", entity.Record{"username": "admin", "fullName": "Admin Renamed"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("accepts a fresh username", func() {
			created, err := facade.Create(ctx, entity.Record{
				"username": "sara",
				"fullName": "Sara Haddad",
				"role":     "operations",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID()).To(Equal("server-1"))
			Expect(gw.posts).To(Equal(1))
		})
	})

	Describe("List and Get", func() {
		var facade *view.Facade

		BeforeEach(func() {
			gw.collections["/customers"] = []entity.Record{
				{"id": "c-1", "name": "Lina Haddad", "phone": "+96279", "email": "lina@example.com"},
				{"id": "c-2", "name": "Yousef Nasser", "phone": "+96278", "email": "yousef@example.com"},
			}
			var err error
			facade, err = view.New(entity.KindCustomers, caches, log)
			Expect(err).ToNot(HaveOccurred())
			_, err = facade.Load(ctx)
			Expect(err).ToNot(HaveOccurred())
		})

		It("filters from the cache without touching the network", func() {
			records := facade.List("yousef")
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID()).To(Equal("c-2"))
		})

		It("finds a cached record by id", func() {
			rec, ok := facade.Get("c-1")
			Expect(ok).To(BeTrue())
			Expect(rec.String("name")).To(Equal("Lina Haddad"))
		})

		It("misses cleanly on an unknown id", func() {
			_, ok := facade.Get("c-404")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ExportCSV", func() {
		It("names the file by entity and day and renders the filtered rows", func() {
			gw.collections["/roles"] = []entity.Record{
				{"id": "1", "name": "ops", "description": "operations"},
				{"id": "2", "name": "sales", "description": "sales"},
			}
			facade, err := view.New(entity.KindRoles, caches, log)
			Expect(err).ToNot(HaveOccurred())
			_, err = facade.Load(ctx)
			Expect(err).ToNot(HaveOccurred())

			filename, data := facade.ExportCSV("ops")

			Expect(filename).To(MatchRegexp(`^roles_\d{4}-\d{2}-\d{2}\.csv$`))
			Expect(string(data)).To(ContainSubstring(`"ops"`))
			Expect(string(data)).ToNot(ContainSubstring(`"sales"`))
		})
	})
})
