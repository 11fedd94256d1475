package concurrency_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/momentics/frameexec/affinity"
	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/internal/concurrency"
)

// recorder counts how often every index was visited.
type recorder struct {
	hits []atomic.Int32
}

func newRecorder(n int) *recorder { return &recorder{hits: make([]atomic.Int32, n)} }

func (r *recorder) record(index, _ int) { r.hits[index].Add(1) }

func (r *recorder) each() []int32 {
	out := make([]int32, len(r.hits))
	for i := range r.hits {
		out[i] = r.hits[i].Load()
	}
	return out
}

var _ = Describe("ParallelIter", func() {
	var p *concurrency.Pool

	AfterEach(func() {
		if p != nil {
			p.Close()
			p = nil
		}
	})

	DescribeTable("should visit every index exactly once",
		func(threads, n int) {
			p = newPool(threads)
			rec := newRecorder(n)
			p.ParallelIter(n, rec.record)
			for i, hits := range rec.each() {
				Expect(hits).To(Equal(int32(1)), "index %d", i)
			}
		},
		Entry("empty range", 2, 0),
		Entry("single index", 2, 1),
		Entry("two indices", 2, 2),
		Entry("single worker", 1, 1000),
		Entry("more indices than workers", 4, 10_000),
		Entry("more workers than indices", 8, 3),
	)

	It("should never call fn for an empty range", func() {
		p = newPool(2)
		called := false
		p.ParallelIter(0, func(int, int) { called = true })
		p.ParallelIter(-5, func(int, int) { called = true })
		Expect(called).To(BeFalse())
	})

	It("should run a single index inline without publishing", func() {
		p = newPool(4)
		var gotIndex, gotThread int
		calls := 0
		p.ParallelIter(1, func(index, thread int) {
			calls++
			gotIndex, gotThread = index, thread
		})
		Expect(calls).To(Equal(1))
		Expect(gotIndex).To(Equal(0))
		Expect(gotThread).To(Equal(concurrency.NonWorker))

		stats := p.Stats()
		Expect(stats).To(HaveKeyWithValue("ranges_published", int64(0)))
		Expect(stats).To(HaveKeyWithValue("helper_joins", int64(0)))
	})

	It("should account every index to the owner or a helper", func() {
		p = newPool(4)
		const n = 200
		rec := newRecorder(n)
		p.ParallelIter(n, func(index, thread int) {
			time.Sleep(200 * time.Microsecond)
			rec.record(index, thread)
		})

		stats := p.Stats()
		Expect(stats["owner_indices"] + stats["helper_indices"]).To(Equal(int64(n)))
		Expect(stats["helper_indices"]).To(BeNumerically(">", 0))
		Expect(stats).To(HaveKeyWithValue("ranges_published", int64(1)))
	})

	It("should hand closures a valid thread index", func() {
		p = newPool(3)
		var bad atomic.Int32
		p.ParallelIter(5_000, func(_, thread int) {
			if thread != concurrency.NonWorker && (thread < 0 || thread >= 3) {
				bad.Add(1)
			}
		})
		Expect(bad.Load()).To(BeZero())
	})

	It("should match ThreadIndex inside closures", func() {
		if _, ok := affinity.CurrentThreadID(); !ok {
			Skip("OS thread ids are not available on this platform")
		}
		p = newPool(3)
		var mismatch atomic.Int32
		p.ParallelIter(2_000, func(_, thread int) {
			if p.ThreadIndex() != thread {
				mismatch.Add(1)
			}
		})
		Expect(mismatch.Load()).To(BeZero())
	})

	It("should complete ranges nested inside other ranges", func() {
		p = newPool(4)
		const outer, inner = 16, 64
		rec := newRecorder(outer * inner)
		p.ParallelIter(outer, func(o, thread int) {
			p.ParallelIterOn(thread, inner, func(i, t int) {
				rec.record(o*inner+i, t)
			})
		})
		for i, hits := range rec.each() {
			Expect(hits).To(Equal(int32(1)), "index %d", i)
		}
	})

	It("should complete ranges published from inside a blocking computation", func() {
		p = newPool(4)
		const n = 4096
		rec := newRecorder(n)
		p.ExecuteBlocking(api.ComputationFunc(func() {
			p.ParallelIter(n, rec.record)
		}))
		for i, hits := range rec.each() {
			Expect(hits).To(Equal(int32(1)), "index %d", i)
		}
	})

	It("should stay exhaustive with concurrent external callers", func() {
		p = newPool(4)
		const callers, n = 6, 3000
		recs := make([]*recorder, callers)
		var wg sync.WaitGroup
		for c := range callers {
			recs[c] = newRecorder(n)
			wg.Add(1)
			go func(rec *recorder) {
				defer wg.Done()
				p.ParallelIter(n, rec.record)
			}(recs[c])
		}
		wg.Wait()

		for _, rec := range recs {
			Expect(rec.each()).To(HaveEach(int32(1)))
		}
	})
})

var _ = Describe("ParallelChunks", func() {
	var p *concurrency.Pool

	AfterEach(func() {
		if p != nil {
			p.Close()
			p = nil
		}
	})

	DescribeTable("should cover the range with bounded chunks",
		func(n, chunk int) {
			p = newPool(3)
			rec := newRecorder(n)
			limit := chunk
			if limit <= 0 {
				limit = 1
			}
			var oversized atomic.Int32
			p.ParallelChunks(n, chunk, func(start, end, thread int) {
				if end-start > limit || end <= start {
					oversized.Add(1)
				}
				for i := start; i < end; i++ {
					rec.record(i, thread)
				}
			})
			Expect(oversized.Load()).To(BeZero())
			Expect(rec.each()).To(HaveEach(int32(1)))
		},
		Entry("exact multiple", 1024, 128),
		Entry("ragged tail", 1000, 128),
		Entry("chunk larger than range", 10, 64),
		Entry("non-positive chunk", 17, 0),
	)

	It("should do nothing for an empty range", func() {
		p = newPool(2)
		called := false
		p.ParallelChunks(0, 8, func(int, int, int) { called = true })
		Expect(called).To(BeFalse())
	})
})
