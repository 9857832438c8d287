package updater_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

func randomField(size field.Size, seed int64) *field.EMField {
	rng := rand.New(rand.NewSource(seed))
	em, err := field.NewEMField(size)
	Expect(err).NotTo(HaveOccurred())
	for _, f := range []*field.VectorField{em.Electric, em.Magnetic} {
		data := f.DataMut()
		for i := range data {
			data[i] = field.V(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
		}
	}
	return em
}

func expectClose(got, want field.Vec4) {
	GinkgoHelper()
	for i := 0; i < 3; i++ {
		Expect(got[i]).To(BeNumerically("~", want[i], 1e-6))
	}
	Expect(got[3]).To(BeZero())
}

var _ = Describe("Neighbors", func() {
	DescribeTable("stay inside the axis",
		func(c, dim, wantMinus, wantPlus int) {
			minus, plus := updater.Neighbors(c, dim)
			Expect(minus).To(Equal(wantMinus))
			Expect(plus).To(Equal(wantPlus))
			Expect(minus).To(BeNumerically(">=", 0))
			Expect(plus).To(BeNumerically("<", dim))
		},
		Entry("single cell", 0, 1, 0, 0),
		Entry("low edge", 0, 4, 0, 1),
		Entry("interior", 2, 4, 1, 3),
		Entry("high edge", 3, 4, 2, 3),
		Entry("two cells, high", 1, 2, 0, 1),
	)
})

var _ = Describe("Curl", func() {
	It("is zero for a uniform field", func() {
		f, _ := field.New(field.NewSize(4, 4, 4))
		f.Fill(field.V(0.3, -1, 2))
		Expect(updater.Curl(f, 1, 2, 3)).To(Equal(field.Vec4{}))
		Expect(updater.Curl(f, 0, 0, 0)).To(Equal(field.Vec4{}))
	})

	It("halves the derivative at the grid edge", func() {
		size := field.NewSize(4, 1, 1)
		f, _ := field.New(size)
		for x := 0; x < size.X; x++ {
			f.Set(x, 0, 0, field.V(0, float32(x), 0))
		}
		Expect(updater.Curl(f, 1, 0, 0)[2]).To(BeNumerically("==", 1))
		Expect(updater.Curl(f, 0, 0, 0)[2]).To(BeNumerically("==", 0.5))
		Expect(updater.Curl(f, 3, 0, 0)[2]).To(BeNumerically("==", 0.5))
	})
})

var _ = Describe("Updater", func() {
	var u *updater.Updater

	BeforeEach(func() {
		u = updater.New(compute.NewSerialBackend())
	})

	It("leaves a single cell grid unchanged", func() {
		em, _ := field.NewEMField(field.NewSize(1, 1, 1))
		em.Electric.Fill(field.V(1, 2, 3))
		em.Magnetic.Fill(field.V(-4, 5, 6))

		Expect(u.Step(em, 0.5)).To(Succeed())
		Expect(em.Electric.At(0, 0, 0)).To(Equal(field.V(1, 2, 3)))
		Expect(em.Magnetic.At(0, 0, 0)).To(Equal(field.V(-4, 5, 6)))
	})

	It("keeps the zero field at zero", func() {
		em, _ := field.NewEMField(field.NewSize(5, 3, 2))
		for i := 0; i < 10; i++ {
			Expect(u.Step(em, 1)).To(Succeed())
		}
		Expect(em.Electric.SumSquares()).To(BeZero())
		Expect(em.Magnetic.SumSquares()).To(BeZero())
	})

	It("treats uniform fields as a fixed point", func() {
		em, _ := field.NewEMField(field.NewSize(4, 4, 4))
		em.Electric.Fill(field.V(0.25, 0, -2))
		em.Magnetic.Fill(field.V(1, 0, 0))
		before := em.Clone()

		Expect(u.Step(em, 1)).To(Succeed())
		Expect(em.Electric.Equal(before.Electric)).To(BeTrue())
		Expect(em.Magnetic.Equal(before.Magnetic)).To(BeTrue())
	})

	It("leaves E zero and H unchanged for uniform H", func() {
		em, _ := field.NewEMField(field.NewSize(4, 4, 4))
		em.Magnetic.Fill(field.V(1, 0, 0))

		Expect(u.Step(em, 1)).To(Succeed())
		for _, v := range em.Electric.Data() {
			Expect(v).To(Equal(field.Vec4{}))
		}
		for _, v := range em.Magnetic.Data() {
			Expect(v).To(Equal(field.V(1, 0, 0)))
		}
	})

	It("reads the updated electric field in the magnetic phase", func() {
		size := field.NewSize(5, 4, 3)
		em := randomField(size, 7)
		before := em.Clone()
		const dt = float32(0.1)

		Expect(u.Step(em, dt)).To(Succeed())

		for z := 0; z < size.Z; z++ {
			for y := 0; y < size.Y; y++ {
				for x := 0; x < size.X; x++ {
					wantE := before.Electric.At(x, y, z).Add(updater.Curl(before.Magnetic, x, y, z).Scale(dt))
					expectClose(em.Electric.At(x, y, z), wantE)
				}
			}
		}
		for z := 0; z < size.Z; z++ {
			for y := 0; y < size.Y; y++ {
				for x := 0; x < size.X; x++ {
					wantH := before.Magnetic.At(x, y, z).Sub(updater.Curl(em.Electric, x, y, z).Scale(dt))
					expectClose(em.Magnetic.At(x, y, z), wantH)
				}
			}
		}
	})

	It("rejects mismatched halves before touching any cell", func() {
		e, _ := field.New(field.NewSize(4, 4, 4))
		m, _ := field.New(field.NewSize(4, 4, 5))
		e.Fill(field.V(1, 1, 1))
		m.Set(2, 2, 2, field.V(0, 3, 0))
		em := &field.EMField{Electric: e, Magnetic: m}
		eBefore, mBefore := e.Clone(), m.Clone()

		err := u.Step(em, 1)
		Expect(err).To(MatchError(field.ErrDimensionMismatch))
		Expect(e.Equal(eBefore)).To(BeTrue())
		Expect(m.Equal(mBefore)).To(BeTrue())
	})

	It("does not undo a step with a negated timestep", func() {
		em := randomField(field.NewSize(6, 6, 6), 11)
		orig := em.Clone()

		Expect(u.Step(em, 0.2)).To(Succeed())
		Expect(u.Step(em, -0.2)).To(Succeed())

		Expect(em.Electric.Equal(orig.Electric)).To(BeFalse())
	})

	It("produces identical results on serial and parallel backends", func() {
		size := field.NewSize(9, 7, 5)
		serial := randomField(size, 3)
		parallel := serial.Clone()
		p := updater.New(compute.NewCPUBackend(4))

		for i := 0; i < 5; i++ {
			Expect(u.Step(serial, 0.05)).To(Succeed())
			Expect(p.Step(parallel, 0.05)).To(Succeed())
		}
		Expect(parallel.Electric.Equal(serial.Electric)).To(BeTrue())
		Expect(parallel.Magnetic.Equal(serial.Magnetic)).To(BeTrue())
	})
})

var _ = Describe("NewKernel", func() {
	It("resolves CPU backends by name", func() {
		k, err := updater.NewKernel("serial", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Name()).To(Equal("serial"))

		k, err = updater.NewKernel("cpu", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Name()).To(Equal("cpu"))
	})

	It("falls back to the CPU for auto", func() {
		k, err := updater.NewKernel("auto", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Name()).NotTo(BeEmpty())
		k.Close()
	})

	It("rejects unknown names", func() {
		_, err := updater.NewKernel("quantum", 0)
		Expect(err).To(HaveOccurred())
	})
})
