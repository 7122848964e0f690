package localstore_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehmtravel/backoffice/internal/localstore"
)

func TestLocalstore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Localstore Suite")
}

var _ = Describe("Store", func() {
	var (
		store *localstore.Store
		log   = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	BeforeEach(func() {
		path := filepath.Join(GinkgoT().TempDir(), "store.db")
		var err error
		store, err = localstore.Open(path, log)
		Expect(err).ToNot(HaveOccurred())
	})

	It("round-trips a key", func() {
		Expect(store.Set(localstore.KeyDarkMode, "true")).To(Succeed())

		value, ok, err := store.Get(localstore.KeyDarkMode)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal("true"))
	})

	It("reports a missing key without an error", func() {
		_, ok, err := store.Get("ehm_never_written")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("overwrites an existing key", func() {
		Expect(store.Set(localstore.KeySettings, `{"lang":"en"}`)).To(Succeed())
		Expect(store.Set(localstore.KeySettings, `{"lang":"ar"}`)).To(Succeed())

		value, ok, err := store.Get(localstore.KeySettings)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(`{"lang":"ar"}`))
	})

	It("writes several keys as one unit", func() {
		err := store.SetAll(map[string]string{
			localstore.KeyIsLoggedIn:  "true",
			localstore.KeyCurrentUser: `{"username":"admin"}`,
			localstore.KeyToken:       "tok-123",
		})
		Expect(err).ToNot(HaveOccurred())

		for _, key := range []string{localstore.KeyIsLoggedIn, localstore.KeyCurrentUser, localstore.KeyToken} {
			_, ok, err := store.Get(key)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue(), key)
		}
	})

	It("deletes several keys in one call, tolerating missing ones", func() {
		Expect(store.Set(localstore.KeyIsLoggedIn, "true")).To(Succeed())

		err := store.DeleteAll(localstore.KeyIsLoggedIn, localstore.KeyToken)
		Expect(err).ToNot(HaveOccurred())

		_, ok, err := store.Get(localstore.KeyIsLoggedIn)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	Describe("snapshots", func() {
		It("round-trips a snapshot with its timestamp", func() {
			Expect(store.SaveSnapshot(localstore.KeyUsers, `[{"id":"u-1"}]`)).To(Succeed())

			payload, takenAt, ok, err := store.LoadSnapshot(localstore.KeyUsers)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(payload).To(Equal(`[{"id":"u-1"}]`))
			Expect(takenAt.IsZero()).To(BeFalse())
		})

		It("replaces an older snapshot of the same kind", func() {
			Expect(store.SaveSnapshot(localstore.KeyUsers, `[]`)).To(Succeed())
			Expect(store.SaveSnapshot(localstore.KeyUsers, `[{"id":"u-2"}]`)).To(Succeed())

			payload, _, ok, err := store.LoadSnapshot(localstore.KeyUsers)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(payload).To(Equal(`[{"id":"u-2"}]`))
		})

		It("reports a missing snapshot without an error", func() {
			_, _, ok, err := store.LoadSnapshot("ehm_nothing")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
