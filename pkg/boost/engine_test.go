package boost_test

import (
	"context"
	"errors"

	"github.com/mgnsk/turnitup/internal/fakeaudio"
	"github.com/mgnsk/turnitup/internal/htmldom"
	"github.com/mgnsk/turnitup/pkg/boost"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const page = `<html><body>
	<video id="v1" src="movie.mp4"></video>
	<div class="player"><audio id="a1" src="song.mp3"></audio></div>
	<p>no media here</p>
</body></html>`

func mustParse(src string) *htmldom.Document {
	doc, err := htmldom.Parse(src)
	Expect(err).NotTo(HaveOccurred())
	return doc
}

var _ = Describe("Engine", func() {
	var (
		ctx     context.Context
		cancel  context.CancelFunc
		backend *fakeaudio.Backend
		doc     *htmldom.Document
		store   *boost.MemoryStore
		log     *recorder
		engine  *boost.Engine
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		backend = fakeaudio.New()
		doc = mustParse(page)
		store = boost.NewMemoryStore()
		log = &recorder{}
	})

	JustBeforeEach(func() {
		engine = boost.New(backend, doc, store, boost.WithLogger(log))
	})

	AfterEach(func() {
		cancel()
	})

	Describe("EnsureGraph", func() {
		It("creates a single context and gain node", func() {
			Expect(engine.State()).To(Equal(boost.StateNotInitialized))

			Expect(engine.EnsureGraph()).To(BeTrue())
			Expect(engine.EnsureGraph()).To(BeTrue())

			Expect(backend.Contexts()).To(HaveLen(1))
			gains := backend.Contexts()[0].Gains()
			Expect(gains).To(HaveLen(1))
			Expect(gains[0].Connected()).To(BeTrue())
			Expect(gains[0].Value()).To(Equal(1.0))
			Expect(engine.State()).To(Equal(boost.StateRunning))
		})

		When("the platform has no audio", func() {
			BeforeEach(func() {
				backend = fakeaudio.Unavailable()
			})

			It("logs and reports a missing graph", func() {
				Expect(engine.EnsureGraph()).To(BeFalse())
				Expect(engine.State()).To(Equal(boost.StateNotInitialized))
				Expect(log.Errors()).To(ContainElement(ContainSubstring("boost.construction")))
			})

			It("keeps gain changes without a graph", func() {
				Expect(engine.SetGain(ctx, 3)).To(Equal(3.0))
				Expect(engine.Gain()).To(Equal(3.0))
			})

			It("builds the graph lazily once the platform recovers", func() {
				el := doc.MediaByID("v1")
				Expect(engine.Attach(ctx, el)).To(BeFalse())
				Expect(engine.Bound(el)).To(BeFalse())

				backend.SetErr(nil)
				Expect(engine.Attach(ctx, el)).To(BeTrue())
				Expect(engine.Bound(el)).To(BeTrue())
			})
		})

		It("initialises the gain node with the current gain", func() {
			engine.SetGain(ctx, 2)
			Expect(engine.EnsureGraph()).To(BeTrue())
			Expect(backend.Contexts()[0].Gains()[0].Value()).To(Equal(2.0))
		})

		When("the platform gates audio", func() {
			BeforeEach(func() {
				backend = fakeaudio.NewGated()
			})

			It("starts suspended", func() {
				Expect(engine.EnsureGraph()).To(BeTrue())
				Expect(engine.State()).To(Equal(boost.StateSuspended))
			})
		})
	})

	Describe("ResumeIfSuspended", func() {
		BeforeEach(func() {
			backend = fakeaudio.NewGated()
		})

		It("does nothing without a context", func() {
			engine.ResumeIfSuspended(ctx)
			Expect(backend.Contexts()).To(BeEmpty())
		})

		It("resumes a suspended context", func() {
			engine.EnsureGraph()
			engine.ResumeIfSuspended(ctx)
			Expect(engine.State()).To(Equal(boost.StateRunning))

			engine.ResumeIfSuspended(ctx)
			Expect(backend.Contexts()[0].Resumes()).To(Equal(1))
		})

		It("logs a denied resume", func() {
			backend.SetDenyResume(true)
			engine.EnsureGraph()

			engine.ResumeIfSuspended(ctx)

			Expect(engine.State()).To(Equal(boost.StateSuspended))
			Expect(log.Warnings()).To(ContainElement(ContainSubstring("boost.resume_denied")))
		})

		It("never leaves the closed state", func() {
			engine.EnsureGraph()
			backend.Contexts()[0].Close()

			engine.ResumeIfSuspended(ctx)

			Expect(engine.State()).To(Equal(boost.StateClosed))
			Expect(backend.Contexts()[0].Resumes()).To(Equal(0))
		})
	})

	Describe("Attach", func() {
		It("routes the element through the shared gain node", func() {
			v1, a1 := doc.MediaByID("v1"), doc.MediaByID("a1")

			Expect(engine.Attach(ctx, v1)).To(BeTrue())
			Expect(engine.Attach(ctx, a1)).To(BeTrue())

			actx := backend.Contexts()[0]
			gain := actx.Gains()[0]
			Expect(actx.Sources()).To(HaveLen(2))
			for _, src := range actx.Sources() {
				Expect(src.Target()).To(BeIdenticalTo(gain))
			}
		})

		It("records the source tap of each bound element", func() {
			registry := boost.NewMapRegistry()
			engine = boost.New(backend, doc, store, boost.WithRegistry(registry))
			v1, a1 := doc.MediaByID("v1"), doc.MediaByID("a1")

			Expect(engine.Attach(ctx, v1)).To(BeTrue())
			Expect(registry.Len()).To(Equal(1))

			src, ok := registry.Source(v1)
			Expect(ok).To(BeTrue())
			Expect(src.(*fakeaudio.Source).Element).To(BeIdenticalTo(v1))

			_, ok = registry.Source(a1)
			Expect(ok).To(BeFalse())
		})

		It("is idempotent", func() {
			v1 := doc.MediaByID("v1")

			Expect(engine.Attach(ctx, v1)).To(BeTrue())
			Expect(engine.Attach(ctx, v1)).To(BeFalse())

			Expect(engine.Bound(v1)).To(BeTrue())
			Expect(backend.Contexts()[0].Sources()).To(HaveLen(1))
			Expect(v1.PlayListeners()).To(Equal(1))
			Expect(log.Warnings()).To(BeEmpty())
		})

		It("leaves refused elements unboosted and never retries them", func() {
			v1 := doc.MediaByID("v1")
			backend.Refuse(v1, errors.New("cross-origin media without CORS"))

			Expect(engine.Attach(ctx, v1)).To(BeFalse())
			Expect(engine.Bound(v1)).To(BeFalse())
			Expect(v1.PlayListeners()).To(Equal(0))
			Expect(log.Warnings()).To(ConsistOf(ContainSubstring("boost.attach")))

			Expect(engine.Attach(ctx, v1)).To(BeFalse())
			Expect(log.Warnings()).To(HaveLen(1))
		})

		It("resumes the context when the element plays", func() {
			backend.Gated = true
			v1 := doc.MediaByID("v1")
			Expect(engine.Attach(ctx, v1)).To(BeTrue())
			Expect(engine.State()).To(Equal(boost.StateSuspended))

			v1.Play()

			Expect(engine.State()).To(Equal(boost.StateRunning))
		})

		It("resumes on every play", func() {
			v1 := doc.MediaByID("v1")
			Expect(engine.Attach(ctx, v1)).To(BeTrue())
			actx := backend.Contexts()[0]

			actx.Suspend()
			v1.Play()
			Expect(engine.State()).To(Equal(boost.StateRunning))

			actx.Suspend()
			v1.Play()
			Expect(engine.State()).To(Equal(boost.StateRunning))
			Expect(actx.Resumes()).To(Equal(2))
		})
	})

	Describe("DiscoverAll", func() {
		It("binds every media element in the document", func() {
			Expect(engine.DiscoverAll(ctx)).To(Equal(2))

			for _, el := range doc.Media() {
				Expect(engine.Bound(el)).To(BeTrue())
			}

			Expect(engine.DiscoverAll(ctx)).To(Equal(0))
			Expect(backend.Contexts()[0].Sources()).To(HaveLen(2))
		})

		It("skips refused elements and logs them", func() {
			a1 := doc.MediaByID("a1")
			backend.Refuse(a1, fakeaudio.ErrCaptured)

			Expect(engine.DiscoverAll(ctx)).To(Equal(1))
			Expect(engine.Bound(doc.MediaByID("v1"))).To(BeTrue())
			Expect(engine.Bound(a1)).To(BeFalse())
			Expect(log.Warnings()).To(HaveLen(1))
		})
	})

	Describe("ObserveMutations", func() {
		JustBeforeEach(func() {
			engine.DiscoverAll(ctx)
			engine.ObserveMutations(ctx)
		})

		It("binds media elements added directly", func() {
			Expect(doc.Append(`<audio id="late"></audio>`)).To(Succeed())
			Expect(engine.Bound(doc.MediaByID("late"))).To(BeTrue())
		})

		It("binds media elements nested in an added subtree", func() {
			Expect(doc.Append(`<div><section><video id="deep"></video><audio id="deep2"></audio></section></div>`)).To(Succeed())
			Expect(engine.Bound(doc.MediaByID("deep"))).To(BeTrue())
			Expect(engine.Bound(doc.MediaByID("deep2"))).To(BeTrue())
		})

		It("binds every element of one batch", func() {
			Expect(doc.Append(`<audio id="x1"></audio><audio id="x2"></audio>`)).To(Succeed())
			Expect(engine.Bound(doc.MediaByID("x1"))).To(BeTrue())
			Expect(engine.Bound(doc.MediaByID("x2"))).To(BeTrue())
			Expect(backend.Contexts()[0].Sources()).To(HaveLen(4))
		})

		It("ignores additions without media", func() {
			Expect(doc.Append(`<p>hello</p>`)).To(Succeed())
			Expect(backend.Contexts()[0].Sources()).To(HaveLen(2))
		})

		It("stops watching when the context is done", func() {
			Expect(doc.Observers()).To(Equal(1))
			cancel()
			Eventually(doc.Observers).Should(Equal(0))

			Expect(doc.Append(`<audio id="after"></audio>`)).To(Succeed())
			Expect(engine.Bound(doc.MediaByID("after"))).To(BeFalse())
		})
	})

	Describe("InstallGestureBootstrap", func() {
		BeforeEach(func() {
			backend = fakeaudio.NewGated()
		})

		It("resumes on the first gesture", func() {
			engine.EnsureGraph()
			engine.InstallGestureBootstrap(ctx)

			Expect(doc.Dispatch("keydown")).To(Equal(1))
			Expect(engine.State()).To(Equal(boost.StateRunning))
		})

		It("removes each listener after it runs", func() {
			engine.InstallGestureBootstrap(ctx)

			Expect(doc.Dispatch("click")).To(Equal(1))
			Expect(doc.Dispatch("click")).To(Equal(0))
			Expect(doc.Dispatch("touchstart")).To(Equal(1))
		})
	})

	Describe("Start", func() {
		It("waits for the document before discovering media", func() {
			loading, err := htmldom.ParseLoading(page)
			Expect(err).NotTo(HaveOccurred())
			doc = loading
			engine = boost.New(backend, doc, store, boost.WithLogger(log))

			done := make(chan error, 1)
			go func() {
				done <- engine.Start(ctx)
			}()

			Consistently(done).ShouldNot(Receive())
			Expect(engine.Bound(doc.MediaByID("v1"))).To(BeFalse())

			doc.Loaded()
			Eventually(done).Should(Receive(BeNil()))

			Expect(engine.Bound(doc.MediaByID("v1"))).To(BeTrue())
			Expect(engine.Bound(doc.MediaByID("a1"))).To(BeTrue())

			Expect(doc.Append(`<video id="later"></video>`)).To(Succeed())
			Expect(engine.Bound(doc.MediaByID("later"))).To(BeTrue())
		})

		It("applies the gain saved earlier in the session", func() {
			Expect(store.Set(ctx, "gain", 3.5)).To(Succeed())

			Expect(engine.Start(ctx)).To(Succeed())

			Eventually(engine.Gain).Should(Equal(3.5))
			Expect(backend.Contexts()[0].Gains()[0].Value()).To(Equal(3.5))
		})

		It("logs the number of bound elements", func() {
			Expect(engine.Start(ctx)).To(Succeed())
			Expect(log.Logs()).To(ContainElement(ContainSubstring("bound:2")))
		})

		It("binds media while the saved gain is still loading", func() {
			Expect(store.Set(ctx, "gain", 2)).To(Succeed())
			slow := &gatedStore{
				MemoryStore: store,
				release:     make(chan struct{}),
				reading:     make(chan struct{}),
			}
			engine = boost.New(backend, doc, slow, boost.WithLogger(log))

			Expect(engine.Start(ctx)).To(Succeed())
			Eventually(slow.reading).Should(BeClosed())

			Expect(engine.Bound(doc.MediaByID("v1"))).To(BeTrue())
			Expect(engine.Bound(doc.MediaByID("a1"))).To(BeTrue())
			Expect(doc.Dispatch("click")).To(Equal(1))
			Expect(engine.Gain()).To(Equal(1.0))

			close(slow.release)
			Eventually(engine.Gain).Should(Equal(2.0))
		})

		It("returns when the context is done before the document is ready", func() {
			loading, err := htmldom.ParseLoading(page)
			Expect(err).NotTo(HaveOccurred())
			engine = boost.New(backend, loading, store)

			cancel()
			Expect(engine.Start(ctx)).To(MatchError(ContainSubstring("wait for document")))
		})
	})
})
