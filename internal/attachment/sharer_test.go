package attachment

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SystemSharer", func() {
	var sharer SystemSharer

	Describe("Share", func() {
		When("the file does not exist", func() {
			It("returns an error without launching anything", func() {
				err := sharer.Share(context.Background(), filepath.Join(GinkgoT().TempDir(), "missing.pdf"))
				Expect(err).To(MatchError(ContainSubstring("locating attachment")))
			})
		})

		When("the context is cancelled", func() {
			It("returns the context error", func() {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				Expect(sharer.Share(ctx, "/tmp/x")).To(MatchError(context.Canceled))
			})
		})
	})
})
