package receipt

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		archive Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		archive, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("writes the file and returns the key", func() {
			key, err := archive.Save("r1", []byte("upload bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("r1"))
			Expect(filepath.Join(tmpDir, "r1")).To(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := archive.Save("r1", []byte("upload bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns the stored bytes", func() {
				data, err := archive.Get("r1")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("upload bytes"))
			})
		})

		When("the file does not exist", func() {
			It("returns the error", func() {
				_, err := archive.Get("missing")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("reading file"))
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := archive.Save("r1", []byte("upload bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("removes it", func() {
				Expect(archive.Delete("r1")).To(Succeed())
				Expect(filepath.Join(tmpDir, "r1")).NotTo(BeAnExistingFile())
			})
		})

		When("the file does not exist", func() {
			It("returns the error", func() {
				Expect(archive.Delete("missing")).To(HaveOccurred())
			})
		})
	})

	Describe("NewLocalStorage", func() {
		When("the directory does not exist yet", func() {
			It("creates it", func() {
				path := filepath.Join(GinkgoT().TempDir(), "uploads")
				_, err := NewLocalStorage(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(path).To(BeADirectory())
			})
		})
	})
})
