package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/narration"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/steps"
)

type collector struct {
	mu       sync.Mutex
	resets   []session.State
	records  []steps.Record
	finished []session.Result
	aborted  []session.Aborted
}

func (c *collector) Reset(s session.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets = append(c.resets, s)
	c.records = nil
}

func (c *collector) Render(r steps.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

func (c *collector) Finish(r session.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = append(c.finished, r)
}

func (c *collector) Abort(a session.Aborted) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted = append(c.aborted, a)
}

func (c *collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *collector) Seqs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.records))
	for i, r := range c.records {
		out[i] = r.Seq
	}
	return out
}

type speechLog struct {
	mu     sync.Mutex
	spoken []string
}

func (s *speechLog) Speak(text string) (<-chan struct{}, error) {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (s *speechLog) Cancel() {}
func (s *speechLog) Pause()  {}
func (s *speechLog) Resume() {}

func (s *speechLog) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

func isSubsequence(sub, full []string) bool {
	i := 0
	for _, s := range full {
		if i < len(sub) && sub[i] == s {
			i++
		}
	}
	return i == len(sub)
}

func contiguousFrom1(seqs []int) bool {
	for i, s := range seqs {
		if s != i+1 {
			return false
		}
	}
	return true
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Controller", func() {
	var (
		col *collector
		ctx context.Context
	)

	BeforeEach(func() {
		col = &collector{}
		ctx = context.Background()
	})

	newController := func(input []float64, speed time.Duration, opts ...session.Option) *session.Controller {
		base := []session.Option{
			session.WithRenderer(col),
			session.WithSpeed(speed),
			session.WithLogger(quiet),
		}
		return session.New(input, append(base, opts...)...)
	}

	It("sorts the textbook bubble example", func() {
		c := newController([]float64{5, 3, 8, 1}, 0)

		res, err := c.Start(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sorted).To(Equal([]float64{1, 3, 5, 8}))
		Expect(res.Counts[steps.Compared]).To(Equal(6))
		Expect(res.Steps).To(Equal(col.Count()))

		Expect(col.resets).To(HaveLen(1))
		Expect(col.finished).To(HaveLen(1))
		Expect(col.aborted).To(BeEmpty())
		Expect(col.finished[0].Sorted).To(Equal([]float64{1, 3, 5, 8}))
		Expect(contiguousFrom1(col.Seqs())).To(BeTrue())
		Expect(c.State().Running).To(BeFalse())
	})

	It("numbers steps contiguously for every algorithm", func() {
		for _, name := range sorting.NewRegistry().Names() {
			c := newController([]float64{9, 2, 7, 2, 4, 0}, 0)
			res, err := c.Start(ctx, name)
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(res.Sorted).To(Equal([]float64{0, 2, 2, 4, 7, 9}), name)
			Expect(contiguousFrom1(col.Seqs())).To(BeTrue(), name)
		}
	})

	It("finishes a single element run without comparisons", func() {
		c := newController([]float64{1}, 0)
		res, err := c.Start(ctx, "quick")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sorted).To(Equal([]float64{1}))
		Expect(res.Counts[steps.Compared]).To(BeZero())
		Expect(col.finished).To(HaveLen(1))
	})

	It("rejects an empty input before starting", func() {
		c := newController(nil, 0)
		_, err := c.Start(ctx, "bubble")
		Expect(err).To(MatchError(session.ErrInvalidInput))
		Expect(col.resets).To(BeEmpty())
		Expect(c.SetInput(nil)).To(MatchError(session.ErrInvalidInput))
	})

	It("rejects an unknown algorithm", func() {
		c := newController([]float64{2, 1}, 0)
		_, err := c.Start(ctx, "bogo")
		Expect(errors.Is(err, sorting.ErrUnknownAlgorithm)).To(BeTrue())
		Expect(c.State().Running).To(BeFalse())
	})

	It("ignores a start while a run is active", func() {
		c := newController([]float64{4, 3, 2, 1}, 20*time.Millisecond)

		out, err := c.Launch(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())
		Eventually(col.Count).Should(BeNumerically(">=", 1))
		first := c.State()

		_, err = c.Launch(ctx, "quick")
		Expect(err).To(MatchError(session.ErrSessionBusy))
		Expect(c.SetInput([]float64{1})).To(MatchError(session.ErrSessionBusy))
		Expect(c.State().ID).To(Equal(first.ID))
		Expect(c.State().Algorithm).To(Equal("bubble"))

		var o session.Outcome
		Eventually(out, 5*time.Second).Should(Receive(&o))
		Expect(o.Err).NotTo(HaveOccurred())
		Expect(o.Result.Algorithm).To(Equal("bubble"))
		Expect(col.resets).To(HaveLen(1))
		Expect(contiguousFrom1(col.Seqs())).To(BeTrue())
	})

	It("freezes progress while paused and continues in order", func() {
		c := newController([]float64{6, 5, 4, 3, 2, 1}, 5*time.Millisecond)

		out, err := c.Launch(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())
		Eventually(col.Count).Should(BeNumerically(">=", 3))

		c.Pause()
		Expect(c.State().Paused).To(BeTrue())
		time.Sleep(30 * time.Millisecond)
		frozen := col.Count()
		Consistently(col.Count, 150*time.Millisecond).Should(Equal(frozen))

		c.Resume()
		var o session.Outcome
		Eventually(out, 5*time.Second).Should(Receive(&o))
		Expect(o.Err).NotTo(HaveOccurred())
		Expect(col.Count()).To(BeNumerically(">", frozen))
		Expect(contiguousFrom1(col.Seqs())).To(BeTrue())
	})

	It("applies a new speed from the next step", func() {
		c := newController([]float64{3, 2, 1}, time.Hour)
		out, err := c.Launch(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())
		Eventually(col.Count).Should(Equal(1))

		c.SetSpeed(0)
		Expect(c.Speed()).To(BeZero())
		// The step already waiting keeps its hour; cancel it and rerun fast.
		c.Cancel()
		Eventually(out).Should(Receive())

		res, err := c.Start(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sorted).To(Equal([]float64{1, 2, 3}))
	})

	It("cancels the active run", func() {
		c := newController([]float64{3, 1, 2}, time.Hour)

		out, err := c.Launch(ctx, "insertion")
		Expect(err).NotTo(HaveOccurred())
		Eventually(col.Count).Should(Equal(1))

		c.Cancel()
		var o session.Outcome
		Eventually(out).Should(Receive(&o))
		Expect(errors.Is(o.Err, context.Canceled)).To(BeTrue())
		Expect(o.Result).To(BeNil())
		Expect(col.finished).To(BeEmpty())
		Expect(c.State().Running).To(BeFalse())

		Expect(col.aborted).To(HaveLen(1))
		Expect(col.aborted[0].SessionID).To(Equal(col.resets[0].ID))
		Expect(col.aborted[0].Algorithm).To(Equal("insertion"))
		Expect(col.aborted[0].Step).To(Equal(1))
		Expect(col.aborted[0].Reason).To(ContainSubstring("canceled"))
	})

	It("narrates steps and announces the final array", func() {
		voice := &speechLog{}
		ch := narration.New(voice, narration.WithEnabled(true), narration.WithLogger(quiet))
		c := newController([]float64{5, 3, 8, 1}, 0, session.WithNarrator(ch))

		_, err := c.Start(ctx, "bubble")
		Expect(err).NotTo(HaveOccurred())

		spoken := voice.Spoken()
		Expect(spoken[0]).To(Equal("Comparing number 5 with number 3"))
		Expect(spoken[len(spoken)-1]).To(Equal("The array is sorted. Final array is: 1, 3, 5, 8"))
	})

	It("keeps background narration in step order and announces the result last", func() {
		cases := []struct {
			algorithm string
			input     []float64
			final     string
		}{
			{"quick", []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}, "The array is sorted. Final array is: 1, 2, 3, 4, 5, 6, 7, 8, 9"},
			{"bubble", []float64{5, 3, 8, 1}, "The array is sorted. Final array is: 1, 3, 5, 8"},
		}
		for _, tc := range cases {
			full := &speechLog{}
			ch := narration.New(full, narration.WithEnabled(true), narration.WithLogger(quiet))
			_, err := newController(tc.input, 0, session.WithNarrator(ch)).Start(ctx, tc.algorithm)
			Expect(err).NotTo(HaveOccurred())
			expected := full.Spoken()
			Expect(expected[len(expected)-1]).To(Equal(tc.final))

			for run := 0; run < 50; run++ {
				voice := &speechLog{}
				ch := narration.New(voice, narration.WithEnabled(true), narration.WithLogger(quiet))
				c := newController(tc.input, 0, session.WithNarrator(ch), session.WithNarrationAwait(false))

				_, err := c.Start(ctx, tc.algorithm)
				Expect(err).NotTo(HaveOccurred())

				spoken := voice.Spoken()
				Expect(spoken).NotTo(BeEmpty())
				Expect(spoken[len(spoken)-1]).To(Equal(tc.final), tc.algorithm)
				Expect(isSubsequence(spoken, expected)).To(BeTrue(), "%s: %v", tc.algorithm, spoken)
				Consistently(voice.Spoken, 5*time.Millisecond).Should(Equal(spoken))
			}
		}
	})

	It("toggles the voice", func() {
		c := newController([]float64{1, 2}, 0)
		Expect(c.State().Voice).To(BeFalse())
		Expect(c.ToggleVoice()).To(BeTrue())
		Expect(c.State().Voice).To(BeTrue())
	})

	It("keeps separate controllers isolated", func() {
		other := &collector{}
		a := newController([]float64{2, 1, 3}, time.Millisecond)
		b := session.New([]float64{9, 8, 7, 6}, session.WithRenderer(other), session.WithLogger(quiet), session.WithSpeed(time.Millisecond))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			_, err := a.Start(ctx, "selection")
			Expect(err).NotTo(HaveOccurred())
		}()
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			_, err := b.Start(ctx, "merge")
			Expect(err).NotTo(HaveOccurred())
		}()
		wg.Wait()

		Expect(contiguousFrom1(col.Seqs())).To(BeTrue())
		Expect(contiguousFrom1(other.Seqs())).To(BeTrue())
		for _, r := range other.records {
			Expect(r.Snapshot).To(HaveLen(4))
		}
	})
})
