package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).ToNot(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the login endpoint and every entity collection", func() {
		Expect(doc.Paths.Find("/auth/login")).ToNot(BeNil())

		for _, path := range []string{
			"/users", "/roles", "/reservations", "/customers", "/suppliers",
			"/hotel-contracts", "/bags", "/transfers", "/itineraries", "/guide-schedules",
		} {
			item := doc.Paths.Find(path)
			Expect(item).ToNot(BeNil(), path)
			Expect(item.Get).ToNot(BeNil(), path)
			Expect(item.Post).ToNot(BeNil(), path)

			byID := doc.Paths.Find(path + "/{id}")
			Expect(byID).ToNot(BeNil(), path)
			Expect(byID.Put).ToNot(BeNil(), path)
			Expect(byID.Delete).ToNot(BeNil(), path)
		}
	})

	It("keeps the legacy envelope documented on customer creation only", func() {
		customers := doc.Paths.Find("/customers")
		resp := customers.Post.Responses.Status(200)
		Expect(resp).ToNot(BeNil())
		schema := resp.Value.Content.Get("application/json").Schema
		Expect(schema.Ref).To(ContainSubstring("LegacyEnvelope"))
	})
})
