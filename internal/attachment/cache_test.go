package attachment

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache", func() {
	var (
		tmpDir string
		cache  *Cache
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		cache, err = NewCache(filepath.Join(tmpDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewCache", func() {
		It("should create the directory", func() {
			Expect(filepath.Join(tmpDir, "receipts")).To(BeADirectory())
		})

		It("should expose an absolute path", func() {
			Expect(filepath.IsAbs(cache.Path())).To(BeTrue())
		})
	})

	Describe("Save", func() {
		var (
			savedPath string
			err       error
		)

		JustBeforeEach(func() {
			savedPath, err = cache.Save("recibo.pdf", strings.NewReader("test file content"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should write the file inside the cache", func() {
				Expect(savedPath).To(BeAnExistingFile())
				Expect(filepath.Dir(savedPath)).To(Equal(cache.Path()))
			})

			It("should keep the original name as suffix", func() {
				Expect(filepath.Base(savedPath)).To(HaveSuffix("_recibo.pdf"))
			})

			It("should copy the content", func() {
				data, readErr := os.ReadFile(savedPath)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("test file content"))
			})
		})

		When("the same name is saved twice", func() {
			It("should produce distinct files", func() {
				other, otherErr := cache.Save("recibo.pdf", strings.NewReader("other"))
				Expect(otherErr).NotTo(HaveOccurred())
				Expect(other).NotTo(Equal(savedPath))
			})
		})

		When("the name carries directories", func() {
			It("should only use the base name", func() {
				p, saveErr := cache.Save("../../etc/passwd", strings.NewReader("x"))
				Expect(saveErr).NotTo(HaveOccurred())
				Expect(filepath.Dir(p)).To(Equal(cache.Path()))
			})
		})
	})

	Describe("Delete", func() {
		When("the file is cached", func() {
			It("should remove it from disk", func() {
				p, err := cache.Save("recibo.pdf", strings.NewReader("content"))
				Expect(err).NotTo(HaveOccurred())
				Expect(cache.Delete(p)).To(Succeed())
				Expect(p).NotTo(BeAnExistingFile())
			})
		})

		When("the file does not exist", func() {
			It("returns the error", func() {
				err := cache.Delete(filepath.Join(cache.Path(), "missing.pdf"))
				Expect(err).To(MatchError(ContainSubstring("deleting file")))
			})
		})

		When("the path is outside the cache", func() {
			It("should leave the file alone", func() {
				outside := filepath.Join(tmpDir, "outside.pdf")
				Expect(os.WriteFile(outside, []byte("x"), 0644)).To(Succeed())
				Expect(cache.Delete(outside)).To(HaveOccurred())
				Expect(outside).To(BeAnExistingFile())
			})
		})

		When("the path is the cache itself", func() {
			It("refuses", func() {
				Expect(cache.Delete(cache.Path())).To(HaveOccurred())
				Expect(cache.Path()).To(BeADirectory())
			})
		})
	})
})
