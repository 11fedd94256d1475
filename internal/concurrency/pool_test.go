package concurrency_test

import (
	"errors"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/internal/concurrency"
)

var _ = Describe("Pool", func() {
	var p *concurrency.Pool

	AfterEach(func() {
		if p != nil {
			p.Close()
			p = nil
		}
	})

	Describe("New", func() {
		It("should start the requested number of workers", func() {
			p = newPool(3)
			Expect(p.NumThreads()).To(Equal(3))
			Expect(p.Stats()).To(HaveKeyWithValue("num_threads", int64(3)))
			Expect(p.ID()).NotTo(BeEmpty())
		})

		It("should size the pool from the reported parallelism when threads is zero", func() {
			aff := &fakeAffinity{parallelism: 5}
			var err error
			p, err = concurrency.New(concurrency.Options{Affinity: aff, Logger: zap.NewNop().Sugar()})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.NumThreads()).To(Equal(5))
		})

		It("should fail when parallelism cannot be determined", func() {
			aff := &fakeAffinity{parallelismErr: errors.New("no sysfs")}
			_, err := concurrency.New(concurrency.Options{Affinity: aff, Logger: zap.NewNop().Sugar()})
			Expect(err).To(MatchError(concurrency.ErrParallelismUnavailable))
		})

		It("should reject a negative thread count", func() {
			_, err := concurrency.New(concurrency.Options{Threads: -2, Logger: zap.NewNop().Sugar()})
			Expect(err).To(MatchError(concurrency.ErrInvalidThreadCount))
		})
	})

	Describe("Pinning", func() {
		It("should pin each worker to a distinct usable CPU", func() {
			aff := &fakeAffinity{cpus: []int{2, 4, 6}}
			var err error
			p, err = concurrency.New(concurrency.Options{Threads: 3, Pin: true, Affinity: aff, Logger: zap.NewNop().Sugar()})
			Expect(err).NotTo(HaveOccurred())
			Expect(aff.pins()).To(ConsistOf(2, 4, 6))
			Expect(p.Stats()).To(HaveKeyWithValue("pinned_threads", int64(3)))
		})

		It("should leave extra workers unpinned when CPUs run out", func() {
			aff := &fakeAffinity{cpus: []int{0}}
			var err error
			p, err = concurrency.New(concurrency.Options{Threads: 3, Pin: true, Affinity: aff, Logger: zap.NewNop().Sugar()})
			Expect(err).NotTo(HaveOccurred())
			Expect(aff.pins()).To(ConsistOf(0))
			Expect(p.Stats()).To(HaveKeyWithValue("pinned_threads", int64(1)))
		})

		It("should keep running when pinning fails", func() {
			aff := &fakeAffinity{cpus: []int{0, 1}, pinErr: errors.New("EPERM")}
			var err error
			p, err = concurrency.New(concurrency.Options{Threads: 2, Pin: true, Affinity: aff, Logger: zap.NewNop().Sugar()})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Stats()).To(HaveKeyWithValue("pinned_threads", int64(0)))

			ran := false
			p.ExecuteBlocking(api.ComputationFunc(func() { ran = true }))
			Expect(ran).To(BeTrue())
		})
	})

	Describe("ThreadIndex", func() {
		It("should report NonWorker outside the pool", func() {
			p = newPool(2)
			Expect(p.ThreadIndex()).To(Equal(concurrency.NonWorker))
		})
	})

	Describe("Close", func() {
		It("should join every worker when idle", func() {
			base := runtime.NumGoroutine()
			p = newPool(4)
			p.Close()
			p = nil

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 2*time.Second, 20*time.Millisecond).Should(BeNumerically("<=", base+1))
		})

		It("should be idempotent", func() {
			p = newPool(2)
			p.Close()
			Expect(p.Close).NotTo(Panic())
			p = nil
		})

		It("should wait for an in-flight computation to finish", func() {
			p = newPool(2)

			started := make(chan struct{})
			unblock := make(chan struct{})
			finished := false
			execDone := make(chan struct{})
			go func() {
				defer close(execDone)
				p.ExecuteBlocking(api.ComputationFunc(func() {
					close(started)
					<-unblock
					finished = true
				}))
			}()
			Eventually(started, time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				p.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(execDone, time.Second).Should(BeClosed())
			Eventually(closeDone, time.Second).Should(BeClosed())
			Expect(finished).To(BeTrue())
			p = nil
		})

		It("should run work inline after Close", func() {
			p = newPool(2)
			p.Close()

			hits := 0
			p.ParallelIter(10, func(int, int) { hits++ })
			p.ExecuteBlocking(api.ComputationFunc(func() { hits++ }))
			Expect(hits).To(Equal(11))
			Expect(p.Stats()).To(HaveKeyWithValue("ranges_published", int64(0)))
			p = nil
		})
	})
})
