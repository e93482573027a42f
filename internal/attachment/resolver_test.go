package attachment

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	var (
		ctx      context.Context
		picker   *mockPicker
		sharer   *mockSharer
		resolver *Resolver
	)

	BeforeEach(func() {
		ctx = context.Background()
		picker = &mockPicker{}
		sharer = &mockSharer{available: true}
		resolver = NewResolver(picker, sharer)
	})

	Describe("PickFile", func() {
		var result *Attachment

		JustBeforeEach(func() {
			result = resolver.PickFile(ctx)
		})

		When("the user selects a file", func() {
			BeforeEach(func() {
				picker.attachment = &Attachment{Name: "recibo.pdf", Locator: "/cache/recibo.pdf"}
			})

			It("should return the selection", func() {
				Expect(result).To(Equal(&Attachment{Name: "recibo.pdf", Locator: "/cache/recibo.pdf"}))
			})
		})

		When("the user cancels", func() {
			It("should return nil", func() {
				Expect(result).To(BeNil())
				Expect(picker.calls).To(Equal(1))
			})
		})

		When("the picker fails", func() {
			BeforeEach(func() {
				picker.attachment = &Attachment{Name: "partial"}
				picker.err = errPlatform
			})

			It("should swallow the error and return nil", func() {
				Expect(result).To(BeNil())
			})
		})
	})

	Describe("OpenFile", func() {
		var (
			locator string
			err     error
		)

		BeforeEach(func() {
			locator = "/cache/recibo.pdf"
		})

		JustBeforeEach(func() {
			err = resolver.OpenFile(ctx, locator)
		})

		When("sharing is available", func() {
			It("should share the locator", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(sharer.shared).To(Equal([]string{"/cache/recibo.pdf"}))
			})
		})

		When("the locator is empty", func() {
			BeforeEach(func() {
				locator = ""
			})

			It("returns ErrNoAttachment", func() {
				Expect(err).To(MatchError(ErrNoAttachment))
				Expect(sharer.shared).To(BeEmpty())
			})
		})

		When("sharing is unavailable", func() {
			BeforeEach(func() {
				sharer.available = false
			})

			It("returns ErrSharingUnavailable", func() {
				Expect(err).To(MatchError(ErrSharingUnavailable))
				Expect(sharer.shared).To(BeEmpty())
			})
		})

		When("the share action fails", func() {
			BeforeEach(func() {
				sharer.shareErr = errPlatform
			})

			It("returns ErrOpenFailed wrapping the cause", func() {
				Expect(err).To(MatchError(ErrOpenFailed))
				Expect(err).To(MatchError(errPlatform))
			})
		})
	})
})
