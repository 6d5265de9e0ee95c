package loader_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lc3/internal/loader"
	"lc3/internal/memory"
)

func image(origin uint16, words ...uint16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, origin)
	for _, w := range words {
		binary.Write(&buf, binary.BigEndian, w)
	}
	return buf.Bytes()
}

var _ = Describe("Load", func() {
	var mem *memory.Memory

	BeforeEach(func() {
		mem = memory.New(nil)
	})

	It("places the payload words at origin, origin+1, ...", func() {
		img := image(0x3000, 0x1023, 0xF025)
		origin, err := loader.Load(bytes.NewReader(img), mem)

		Expect(err).NotTo(HaveOccurred())
		Expect(origin).To(Equal(uint16(0x3000)))
		Expect(mem.Read(0x3000)).To(Equal(uint16(0x1023)))
		Expect(mem.Read(0x3001)).To(Equal(uint16(0xF025)))
	})

	It("leaves untouched cells zero (round-trip property P5)", func() {
		img := image(0x4000, 0xBEEF)
		_, err := loader.Load(bytes.NewReader(img), mem)

		Expect(err).NotTo(HaveOccurred())
		Expect(mem.Read(0x3FFF)).To(Equal(uint16(0)))
		Expect(mem.Read(0x4001)).To(Equal(uint16(0)))
	})

	It("ignores a trailing odd byte past the last complete word", func() {
		img := append(image(0x3000, 0x1111), 0xAB)
		origin, err := loader.Load(bytes.NewReader(img), mem)

		Expect(err).NotTo(HaveOccurred())
		Expect(origin).To(Equal(uint16(0x3000)))
		Expect(mem.Read(0x3000)).To(Equal(uint16(0x1111)))
	})

	It("fails on a stream shorter than two bytes", func() {
		_, err := loader.Load(bytes.NewReader([]byte{0x01}), mem)
		Expect(err).To(HaveOccurred())
	})

	It("fails on an empty stream", func() {
		_, err := loader.Load(bytes.NewReader(nil), mem)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadFile", func() {
	It("fails when the file does not exist", func() {
		mem := memory.New(nil)
		_, err := loader.LoadFile("/nonexistent/path/to/image.obj", mem)
		Expect(err).To(HaveOccurred())
	})
})
