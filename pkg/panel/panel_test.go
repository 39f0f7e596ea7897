package panel_test

import (
	"context"

	"github.com/mgnsk/turnitup/internal/fakeaudio"
	"github.com/mgnsk/turnitup/internal/htmldom"
	"github.com/mgnsk/turnitup/pkg/boost"
	"github.com/mgnsk/turnitup/pkg/panel"
	"github.com/mgnsk/turnitup/pkg/protocol"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

const page = `<body><video id="v1" src="a.mp4"></video><audio id="a1" src="b.mp3"></audio></body>`

var _ = Describe("Panel", func() {
	var (
		ctx       context.Context
		tabs      fakeTabs
		transport *fakeTransport
		view      *fakeView
		p         *panel.Panel
		response  protocol.Response
	)

	BeforeEach(func() {
		ctx = context.Background()
		tabs = fakeTabs{tab: panel.Tab{ID: 7, URL: "https://example.com/watch"}}
		view = &fakeView{}
		count := 2
		response = protocol.Response{Gain: 1, AudioContextState: "running", MediaCount: &count}
		transport = &fakeTransport{}
		transport.handler = protocol.HandlerFunc(func(_ context.Context, req protocol.Request) (protocol.Response, error) {
			if req.Type == protocol.SetGain {
				g, _ := protocol.ClampGain(*req.Gain)
				return protocol.Response{Success: true, Gain: g}, nil
			}
			return response, nil
		})
	})

	JustBeforeEach(func() {
		p = panel.New(panel.DefaultConfig(), tabs, transport, view, nil)
	})

	Describe("Initialize", func() {
		It("loads the status of the active tab", func() {
			response.Gain = 2.5
			Expect(p.Initialize(ctx)).To(BeTrue())

			Expect(transport.Sent()).To(Equal([]protocol.Request{protocol.NewGetStatus()}))
			Expect(transport.tabs).To(Equal([]int{7}))
			Expect(view.Last().Percent).To(Equal(250))
			Expect(view.LastStatus()).To(Equal(panel.StatusMediaActive(2)))
			Expect(view.disabled).To(BeFalse())
		})

		When("there is no active tab", func() {
			BeforeEach(func() {
				tabs.err = errUnreachable
			})

			It("disables the controls", func() {
				Expect(p.Initialize(ctx)).To(BeFalse())
				Expect(view.LastStatus()).To(Equal(panel.StatusNoActiveTab))
				Expect(view.disabled).To(BeTrue())
				Expect(transport.Sent()).To(BeEmpty())
			})
		})

		DescribeTable("privileged pages",
			func(url string) {
				p := panel.New(panel.DefaultConfig(), fakeTabs{tab: panel.Tab{ID: 1, URL: url}}, transport, view, nil)
				Expect(p.Initialize(ctx)).To(BeFalse())
				Expect(view.LastStatus()).To(Equal(panel.StatusCannotBoost))
				Expect(view.disabled).To(BeTrue())
				Expect(transport.Sent()).To(BeEmpty())

				p.SlideTo(ctx, 3)
				p.ToggleMute(ctx)
				Expect(transport.Sent()).To(BeEmpty())
			},
			Entry("browser settings", "chrome://settings"),
			Entry("another extension", "chrome-extension://abc/popup.html"),
			Entry("edge pages", "edge://flags"),
			Entry("blank page", "about:blank"),
			Entry("devtools", "devtools://devtools/bundled/inspector.html"),
			Entry("web store", "https://chromewebstore.google.com/detail/x"),
		)

		When("the content script does not answer", func() {
			JustBeforeEach(func() {
				transport.SetErr(errUnreachable)
			})

			It("asks for a reload but keeps the controls", func() {
				Expect(p.Initialize(ctx)).To(BeTrue())
				Expect(view.LastStatus()).To(Equal(panel.StatusReloadPage))
				Expect(view.disabled).To(BeFalse())
			})
		})
	})

	Describe("status line", func() {
		It("asks for a gesture while the context is suspended", func() {
			response.AudioContextState = "suspended"
			p.Initialize(ctx)
			Expect(view.LastStatus()).To(Equal(panel.StatusClickToActivate))
		})

		It("reports pages without media", func() {
			zero := 0
			response.MediaCount = &zero
			p.Initialize(ctx)
			Expect(view.LastStatus()).To(Equal(panel.StatusNoMediaFound))
		})

		It("falls back to the volume without a media count", func() {
			response = protocol.Response{Gain: 1.5}
			p.Initialize(ctx)
			Expect(view.LastStatus()).To(Equal(panel.StatusVolume(1.5)))
		})
	})

	Context("after initialization", func() {
		JustBeforeEach(func() {
			Expect(p.Initialize(ctx)).To(BeTrue())
		})

		It("renders the slider value before the content script confirms", func() {
			transport.SetErr(errUnreachable)
			p.SlideTo(ctx, 3)
			Expect(view.Last().Gain).To(Equal(3.0))
			Expect(view.LastStatus()).To(Equal(panel.StatusNoMediaDetected))
			Expect(p.Gain()).To(Equal(1.0))
		})

		It("renders the confirmed gain", func() {
			p.Preset(ctx, 9)
			Expect(view.Last().Gain).To(Equal(5.0))
			Expect(view.LastStatus()).To(Equal(panel.StatusVolume(5)))
			Expect(p.Gain()).To(Equal(5.0))
		})

		It("resets to unity", func() {
			p.Preset(ctx, 4)
			p.Reset(ctx)
			Expect(p.Gain()).To(Equal(1.0))
			Expect(transport.Sent()[len(transport.Sent())-1]).To(Equal(protocol.NewSetGain(1)))
		})

		It("sends each change once", func() {
			transport.SetErr(errUnreachable)
			p.Preset(ctx, 2)
			Expect(transport.Sent()).To(HaveLen(2))
		})

		Describe("ToggleMute", func() {
			It("mutes and restores the previous gain", func() {
				p.Preset(ctx, 2.5)

				p.ToggleMute(ctx)
				Expect(p.Gain()).To(Equal(0.0))
				Expect(p.Muted()).To(BeTrue())
				Expect(view.Last().Muted).To(BeTrue())

				p.ToggleMute(ctx)
				Expect(p.Gain()).To(Equal(2.5))
				Expect(p.Muted()).To(BeFalse())
			})

			It("restores unity when muted by the slider", func() {
				p.SlideTo(ctx, 0)
				p.ToggleMute(ctx)
				Expect(p.Gain()).To(Equal(1.0))
			})

			It("stays muted when the content script is unreachable", func() {
				p.ToggleMute(ctx)
				transport.SetErr(errUnreachable)
				p.ToggleMute(ctx)
				Expect(p.Gain()).To(Equal(0.0))
				Expect(view.LastStatus()).To(Equal(panel.StatusNoMediaDetected))
			})
		})
	})

	Describe("against the engine", func() {
		var (
			backend *fakeaudio.Backend
			store   *boost.MemoryStore
			engine  *boost.Engine
		)

		BeforeEach(func() {
			backend = fakeaudio.New()
			store = boost.NewMemoryStore()
			doc, err := htmldom.Parse(page)
			Expect(err).NotTo(HaveOccurred())
			engine = boost.New(backend, doc, store)
			engine.DiscoverAll(ctx)
			transport.handler = loopback{handler: engine}
		})

		JustBeforeEach(func() {
			Expect(p.Initialize(ctx)).To(BeTrue())
		})

		It("reports the media on the page", func() {
			Expect(view.LastStatus()).To(Equal(panel.StatusMediaActive(2)))
			Expect(view.Last().Gain).To(Equal(1.0))
		})

		It("drives the gain node", func() {
			p.SlideTo(ctx, 3.5)
			Expect(engine.Gain()).To(Equal(3.5))
			Expect(backend.Contexts()[0].Gains()[0].Value()).To(Equal(3.5))
			Expect(view.Last().Percent).To(Equal(350))
		})

		It("mutes the page and brings it back", func() {
			p.Preset(ctx, 2)
			p.ToggleMute(ctx)
			Expect(engine.Gain()).To(Equal(0.0))
			p.ToggleMute(ctx)
			Expect(engine.Gain()).To(Equal(2.0))
		})

		It("shows the saved gain when the popup is reopened", func() {
			p.Preset(ctx, 4)

			reopened := &fakeView{}
			again := panel.New(panel.DefaultConfig(), tabs, transport, reopened, nil)
			Expect(again.Initialize(ctx)).To(BeTrue())
			Expect(reopened.Last().Gain).To(Equal(4.0))

			saved, ok, err := store.Get(ctx, "gain")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(saved).To(Equal(4.0))
		})
	})
})
