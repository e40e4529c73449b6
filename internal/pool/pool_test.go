package pool_test

import (
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/CryptoExperts/ironmask-go/internal/metrics"
	"github.com/CryptoExperts/ironmask-go/internal/pool"
)

var _ = Describe("Pool", func() {

	It("runs every ForAll task exactly once", func() {
		p := pool.New(2)
		var count int32
		p.ForAll(10, func(i int) {
			atomic.AddInt32(&count, 1)
		})
		Expect(count).To(Equal(int32(10)))
	})

	It("runs every Go task exactly once", func() {
		p := pool.New(1)
		var count int32
		p.Go(
			func() { atomic.AddInt32(&count, 1) },
			func() { atomic.AddInt32(&count, 1) },
			func() { atomic.AddInt32(&count, 1) },
		)
		Expect(count).To(Equal(int32(3)))
	})

	It("counts spawned tasks through an attached metrics registry", func() {
		reg := metrics.New()
		p := pool.New(2).WithMetrics(reg)
		p.Go(func() {}, func() {})
		p.ForAll(3, func(i int) {})

		rec := httptest.NewRecorder()
		reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		Expect(rec.Body.String()).To(ContainSubstring("ironmask_tasks_spawned_total 5"))
	})

	It("tracks the cooperative stop flag", func() {
		p := pool.New(4)
		Expect(p.StopRequested()).To(BeFalse())
		p.RequestStop()
		Expect(p.StopRequested()).To(BeTrue())
	})
})
