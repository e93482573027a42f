package attachment

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PathPicker", func() {
	var (
		tmpDir string
		cache  *Cache
		picker *PathPicker
		result *Attachment
		err    error
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var cacheErr error
		cache, cacheErr = NewCache(filepath.Join(tmpDir, "cache"))
		Expect(cacheErr).NotTo(HaveOccurred())
		picker = &PathPicker{Cache: cache}
	})

	JustBeforeEach(func() {
		result, err = picker.Pick(context.Background())
	})

	When("a file is selected", func() {
		BeforeEach(func() {
			picker.Path = filepath.Join(tmpDir, "recibo.pdf")
			Expect(os.WriteFile(picker.Path, []byte("%PDF-1.4"), 0644)).To(Succeed())
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should use the file name for display", func() {
			Expect(result.Name).To(Equal("recibo.pdf"))
		})

		It("should point the locator at a cached copy", func() {
			Expect(filepath.Dir(result.Locator)).To(Equal(cache.Path()))
			data, readErr := os.ReadFile(result.Locator)
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("%PDF-1.4"))
		})
	})

	When("no path is given", func() {
		It("should report a cancelled selection", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	When("the file does not exist", func() {
		BeforeEach(func() {
			picker.Path = filepath.Join(tmpDir, "missing.pdf")
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("opening selected file")))
			Expect(result).To(BeNil())
		})
	})

	When("the path is a directory", func() {
		BeforeEach(func() {
			picker.Path = tmpDir
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("is a directory")))
		})
	})

	When("the context is already cancelled", func() {
		It("returns the context error", func() {
			picker.Path = filepath.Join(tmpDir, "recibo.pdf")
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, pickErr := picker.Pick(ctx)
			Expect(pickErr).To(MatchError(context.Canceled))
		})
	})
})
