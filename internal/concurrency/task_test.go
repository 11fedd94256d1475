package concurrency_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/internal/concurrency"
)

// wakerProbe keeps the waker it was polled with.
type wakerProbe struct{ waker api.Waker }

func (c *wakerProbe) Poll(w api.Waker) api.PollState {
	c.waker = w
	return api.PollReady
}

var _ = Describe("Task", func() {
	It("should report ready for a function computation", func() {
		ran := false
		state, err := concurrency.NewTask(api.ComputationFunc(func() { ran = true })).Poll()
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(Equal(api.PollReady))
		Expect(ran).To(BeTrue())
	})

	It("should pass through a pending state", func() {
		state, err := concurrency.NewTask(&pendingComputation{}).Poll()
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(Equal(api.PollPending))
	})

	It("should refuse a second poll while the first is running", func() {
		entered := make(chan struct{})
		release := make(chan struct{})
		task := concurrency.NewTask(api.ComputationFunc(func() {
			close(entered)
			<-release
		}))

		firstDone := make(chan error, 1)
		go func() {
			_, err := task.Poll()
			firstDone <- err
		}()
		Eventually(entered).Should(BeClosed())

		_, err := task.Poll()
		Expect(err).To(MatchError(concurrency.ErrPollInProgress))

		close(release)
		Eventually(firstDone).Should(Receive(BeNil()))
	})

	It("should allow polling again once the previous poll returned", func() {
		polls := 0
		task := concurrency.NewTask(api.ComputationFunc(func() { polls++ }))
		for range 3 {
			_, err := task.Poll()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(polls).To(Equal(3))
	})

	It("should hand out a no-op waker whose clone identifies the same task", func() {
		probe := &wakerProbe{}
		task := concurrency.NewTask(probe)
		_, err := task.Poll()
		Expect(err).NotTo(HaveOccurred())
		Expect(probe.waker).NotTo(BeNil())
		Expect(probe.waker.Wake).NotTo(Panic())

		Expect(concurrency.WakerTask(probe.waker)).To(BeIdenticalTo(task))
		Expect(concurrency.WakerTask(probe.waker.Clone())).To(BeIdenticalTo(task))

		other := &wakerProbe{}
		otherTask := concurrency.NewTask(other)
		_, _ = otherTask.Poll()
		Expect(concurrency.WakerTask(other.waker)).To(BeIdenticalTo(otherTask))
		Expect(concurrency.WakerTask(other.waker)).NotTo(BeIdenticalTo(task))
	})
})
