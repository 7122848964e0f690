package export_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/export"
)

func TestExport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

var _ = Describe("Filename", func() {
	It("follows the <entity>_<ISO-date>.csv convention", func() {
		now := time.Date(2026, time.March, 7, 14, 30, 0, 0, time.UTC)
		Expect(export.Filename(entity.KindReservations, now)).To(Equal("reservations_2026-03-07.csv"))
	})
})

var _ = Describe("Marshal", func() {
	var schema entity.Schema

	BeforeEach(func() {
		var err error
		schema, err = entity.Get(entity.KindRoles)
		Expect(err).ToNot(HaveOccurred())
	})

	It("writes a quoted header row and one row per record, CRLF terminated", func() {
		records := []entity.Record{
			{"name": "ops", "description": "operations team"},
			{"name": "sales", "description": "sales team"},
		}

		data := export.Marshal(schema, records)

		lines := strings.Split(string(data), "\r\n")
		Expect(lines).To(HaveLen(4)) // header + 2 rows + trailing empty
		Expect(lines[0]).To(Equal(`"name","description"`))
		Expect(lines[1]).To(Equal(`"ops","operations team"`))
		Expect(lines[2]).To(Equal(`"sales","sales team"`))
	})

	It("escapes embedded quotes and keeps commas inside cells", func() {
		records := []entity.Record{
			{"name": `the "big" one`, "description": "a, b, c"},
		}

		data := export.Marshal(schema, records)

		Expect(string(data)).To(ContainSubstring(`"the ""big"" one","a, b, c"`))
	})

	It("prepends a UTF-8 BOM when a cell contains Arabic text", func() {
		records := []entity.Record{
			{"name": "مدير", "description": "admin role"},
		}

		data := export.Marshal(schema, records)

		Expect(data[:3]).To(Equal([]byte{0xEF, 0xBB, 0xBF}))
	})

	It("omits the BOM for plain latin content", func() {
		records := []entity.Record{
			{"name": "ops", "description": "operations"},
		}

		data := export.Marshal(schema, records)

		Expect(data[0]).To(Equal(byte('"')))
	})

	It("renders an empty collection as just the header", func() {
		data := export.Marshal(schema, nil)
		Expect(string(data)).To(Equal("\"name\",\"description\"\r\n"))
	})
})
