package dynamo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/collisim/internal/dynamo"
)

var _ = Describe("World", func() {
	Describe("two-ball head-on", func() {
		var (
			w       *dynamo.World
			contact dynamo.Contact
			p0      dynamo.Vec2
			e0      float64
		)

		BeforeEach(func() {
			va := dynamo.Vec2{X: 200, Y: 150}
			vb := dynamo.Vec2{X: -180, Y: -120}
			dir := va.Sub(vb).Normalize()
			pa := dynamo.Vec2{X: 600, Y: 600}

			var err error
			w, err = dynamo.New(dynamo.Bounds{Width: 2000, Height: 2000}, []dynamo.Body{
				{ID: 1, Position: pa, Velocity: va, Radius: 30, Mass: 1.0},
				{ID: 2, Position: pa.Add(dir.Scale(200)), Velocity: vb, Radius: 25, Mass: 0.8},
			})
			Expect(err).NotTo(HaveOccurred())
			p0, e0 = w.Momentum(), w.TotalEnergy()

			for i := 0; i < 1000; i++ {
				res, err := w.Step(1.0 / 240)
				Expect(err).NotTo(HaveOccurred())
				if res.Collisions > 0 {
					contact = res.Contacts[0]
					return
				}
			}
			Fail("bodies never met")
		})

		It("approaches along the contact normal", func() {
			Expect(contact.Pair).To(Equal(dynamo.Pair{A: 1, B: 2}))
			Expect(contact.NormalVelocity).To(BeNumerically("<=", 0))
			Expect(contact.Separating).To(BeFalse())
		})

		It("leaves the pair separating", func() {
			a, b := w.Body(0), w.Body(1)
			Expect(a.Velocity.Sub(b.Velocity).Dot(contact.Normal)).To(BeNumerically(">=", 0))
			Expect(a.Position.Distance(b.Position)).To(BeNumerically("~", 55, 1e-9))
		})

		It("conserves momentum and kinetic energy", func() {
			p1 := w.Momentum()
			Expect(p1.X).To(BeNumerically("~", p0.X, 1e-9))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-9))
			Expect(w.TotalEnergy()).To(BeNumerically("~", e0, 1e-9*e0))
		})
	})

	Describe("wall bounce", func() {
		It("clamps to the wall and reverses the normal velocity", func() {
			w, err := dynamo.New(dynamo.Bounds{Width: 800, Height: 600}, []dynamo.Body{
				{ID: 1, Position: dynamo.Vec2{X: 20, Y: 100}, Velocity: dynamo.Vec2{X: -50}, Radius: 20, Mass: 1},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = w.Step(0.5)
			Expect(err).NotTo(HaveOccurred())

			b := w.Body(0)
			Expect(b.Position.X).To(Equal(20.0))
			Expect(b.Velocity.X).To(Equal(50.0))
			Expect(w.TotalCollisions()).To(BeZero())
		})
	})

	Describe("coincident centres", func() {
		It("separates along the fallback axis without producing NaN", func() {
			w, err := dynamo.New(dynamo.Bounds{Width: 200, Height: 200}, []dynamo.Body{
				{ID: 1, Position: dynamo.Vec2{X: 100, Y: 100}, Radius: 5, Mass: 1},
				{ID: 2, Position: dynamo.Vec2{X: 100, Y: 100}, Radius: 5, Mass: 1},
			})
			Expect(err).NotTo(HaveOccurred())

			res, err := w.Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Collisions).To(Equal(1))
			Expect(res.Contacts[0].Normal).To(Equal(dynamo.Vec2{X: 1, Y: 0}))
			Expect(w.IsValid()).To(BeTrue())
			Expect(w.Body(0).Position.X).To(BeNumerically(">", w.Body(1).Position.X))
		})
	})

	Describe("invalid timestep", func() {
		It("is rejected with ErrInvalidTimestep", func() {
			w, err := dynamo.New(dynamo.Bounds{Width: 10, Height: 10}, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = w.Step(-1)
			Expect(err).To(MatchError(dynamo.ErrInvalidTimestep))
		})
	})
})
