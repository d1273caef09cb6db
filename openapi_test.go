package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// The document under api/ is what /swagger serves; keeping it loadable
// and in sync with the mounted routes is part of the contract.
var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("validates against the OpenAPI 3 schema", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("declares bearer auth as the default security scheme", func() {
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))
	})

	It("documents every mounted resource family", func() {
		for _, path := range []string{
			"/health",
			"/me",
			"/departments",
			"/departments/{id}",
			"/departments/summary",
			"/sites",
			"/sites/find-or-create",
			"/employees",
			"/leave-requests",
			"/leave-requests/{id}/approve",
			"/tickets",
			"/polls/{id}/vote",
			"/fleet/vehicles",
			"/fleet/vehicles/{id}/positions",
			"/reference/merchandise",
			"/reference/package-services",
			"/staged-files",
			"/search/global",
			"/webhooks/line",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})
})
