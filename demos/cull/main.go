// cull drives a few thousand moving entities through an octree and draws
// only what survives a frustum/play-region query, sharding the per-entity
// simulation step across goroutines with errgroup. A stress test for the
// spatialtree query surface rather than a renderer.
package main

import (
	"image/color"
	"log"
	"math"
	"math/rand/v2"
	"runtime"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/spatialtree/geom"
	"github.com/phanxgames/spatialtree/octree"
)

const (
	screenW    = 1280
	screenH    = 720
	worldSize  = 256
	treeDepth  = 6
	entityCt   = 4000
	shardCount = 8
)

type entity struct {
	handle          int
	pos             geom.Vec3
	vel             geom.Vec3
	static          bool
	light           bool
	half            float64
}

func (e *entity) bounds() geom.Box {
	return geom.Box{
		X: e.pos.X - e.half, Y: e.pos.Y - e.half, Z: e.pos.Z - e.half,
		Width: e.half * 2, Height: e.half * 2, Depth: e.half * 2,
	}
}

func (e *entity) flags() octree.Flags {
	var f octree.Flags
	if e.static {
		f |= octree.FlagStatic
	}
	if e.light {
		f |= octree.FlagLight
	}
	return f | octree.FlagVisible
}

type game struct {
	tree     *octree.Tree[int]
	entities []entity

	camX, camY, camZ float64
	panTween         *gween.Tween
	frame            int

	visible int
}

func newGame() *game {
	tree := octree.Make[int](treeDepth, geom.Vec3{X: worldSize, Y: worldSize, Z: worldSize})
	entities := make([]entity, entityCt)
	for i := range entities {
		half := 1 + rand.Float64()*2
		entities[i] = entity{
			handle: i,
			pos: geom.Vec3{
				X: (rand.Float64() - 0.5) * worldSize,
				Y: (rand.Float64() - 0.5) * worldSize,
				Z: (rand.Float64() - 0.5) * worldSize,
			},
			vel: geom.Vec3{
				X: (rand.Float64() - 0.5) * 6,
				Y: (rand.Float64() - 0.5) * 6,
				Z: (rand.Float64() - 0.5) * 6,
			},
			static: i%17 == 0,
			light:  i%41 == 0,
			half:   half,
		}
		e := &entities[i]
		tree.AddElement(octree.NewElement(e.handle, e.flags(), octree.Enclosed, e.bounds()))
	}
	return &game{
		tree:     tree,
		entities: entities,
		panTween: gween.New(0, worldSize/4, 6, ease.InOutSine),
	}
}

// step advances one entity, bouncing it off the world bounds, and returns
// the element to re-upsert into the tree. Run concurrently by shardUpdate.
func (g *game) step(i int, dt float64) (oldElem, newElem octree.Element[int]) {
	e := &g.entities[i]
	old := octree.NewElement(e.handle, e.flags(), octree.Enclosed, e.bounds())

	e.pos.X += e.vel.X * dt
	e.pos.Y += e.vel.Y * dt
	e.pos.Z += e.vel.Z * dt

	half := worldSize / 2
	for _, axis := range []*float64{&e.pos.X, &e.pos.Y, &e.pos.Z} {
		if *axis < -half {
			*axis = -half
		} else if *axis > half {
			*axis = half
		}
	}
	if e.pos.X <= -half || e.pos.X >= half {
		e.vel.X = -e.vel.X
	}
	if e.pos.Y <= -half || e.pos.Y >= half {
		e.vel.Y = -e.vel.Y
	}
	if e.pos.Z <= -half || e.pos.Z >= half {
		e.vel.Z = -e.vel.Z
	}

	new := octree.NewElement(e.handle, e.flags(), octree.Enclosed, e.bounds())
	return old, new
}

// shardUpdate splits the entity array into contiguous ranges, one per
// goroutine, using shardCount ranges or runtime.NumCPU() if that is smaller. The returned pairs are applied to the tree serially afterward,
// since Tree is not safe for concurrent mutation.
func (g *game) shardUpdate(dt float64) {
	shards := shardCount
	if max := runtime.NumCPU(); shards > max {
		shards = max
	}
	if shards < 1 {
		shards = 1
	}
	updates := make([][2]octree.Element[int], len(g.entities))

	var eg errgroup.Group
	chunk := (len(g.entities) + shards - 1) / shards
	for s := 0; s < shards; s++ {
		lo := s * chunk
		hi := lo + chunk
		if lo >= len(g.entities) {
			break
		}
		if hi > len(g.entities) {
			hi = len(g.entities)
		}
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				old, new := g.step(i, dt)
				updates[i] = [2]octree.Element[int]{old, new}
			}
			return nil
		})
	}
	_ = eg.Wait()

	for _, pair := range updates {
		g.tree.UpdateElement(pair[0], pair[1])
	}
}

func (g *game) Update() error {
	g.frame++
	dt := 1.0 / float64(ebiten.TPS())
	g.shardUpdate(dt)

	if g.panTween != nil {
		x, _, done := g.panTween.Update(float32(dt))
		g.camX = float64(x)
		if done {
			g.panTween = nil
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 22, A: 255})

	playBox := geom.Box{
		X: g.camX - 40, Y: g.camY - 40, Z: g.camZ - 40,
		Width: 80, Height: 80, Depth: 80,
	}
	// A single plane with a zero normal and negative offset rejects every
	// box, so the play region is box-only for this demo. (An empty Frustum
	// would intersect everything.)
	playFrustum := geom.Frustum{Planes: []geom.Plane{{D: -1}}}

	acc := octree.NewSet[int]()
	enum := g.tree.InPlay(playBox, playFrustum, acc)

	n := 0
	for el := range enum.All() {
		n++
		b := el.Bounds()
		sx := screenW/2 + (b.X-g.camX)*6
		sy := screenH/2 + (b.Y-g.camY)*6
		c := color.RGBA{R: 120, G: 180, B: 255, A: 255}
		if el.Light() {
			c = color.RGBA{R: 255, G: 220, B: 120, A: 255}
		}
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(math.Max(b.Width, 2)), c, false)
	}
	g.visible = n

	ebitenutil.DebugPrint(screen, "visible: "+strconv.Itoa(g.visible)+" / "+strconv.Itoa(len(g.entities)))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("spatialtree — octree culling demo")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
