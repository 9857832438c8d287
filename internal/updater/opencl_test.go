//go:build opencl

package updater_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

var _ = Describe("OpenCLKernel", func() {
	var kernel updater.Kernel

	BeforeEach(func() {
		k, err := updater.NewKernel("opencl", 0)
		if err != nil {
			Skip("no OpenCL device: " + err.Error())
		}
		kernel = k
		DeferCleanup(kernel.Close)
	})

	It("matches the serial kernel within float32 precision", func() {
		serial, err := updater.NewKernel("serial", 0)
		Expect(err).NotTo(HaveOccurred())
		defer serial.Close()

		gpu := randomField(field.NewSize(4, 3, 5), 17)
		cpu := gpu.Clone()

		for i := 0; i < 4; i++ {
			Expect(kernel.Step(gpu, 0.1)).To(Succeed())
			Expect(serial.Step(cpu, 0.1)).To(Succeed())
		}

		for _, pair := range [][2]*field.VectorField{{gpu.Electric, cpu.Electric}, {gpu.Magnetic, cpu.Magnetic}} {
			got, want := pair[0].Data(), pair[1].Data()
			Expect(got).To(HaveLen(len(want)))
			for i := range want {
				for c := 0; c < 3; c++ {
					Expect(got[i][c]).To(BeNumerically("~", want[i][c], 1e-4), "cell %d component %d", i, c)
				}
			}
		}
	})

	It("rejects incongruent halves", func() {
		e, err := field.New(field.NewSize(2, 2, 2))
		Expect(err).NotTo(HaveOccurred())
		h, err := field.New(field.NewSize(2, 2, 3))
		Expect(err).NotTo(HaveOccurred())
		Expect(kernel.Step(&field.EMField{Electric: e, Magnetic: h}, 0.1)).NotTo(Succeed())
	})
})
