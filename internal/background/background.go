package background

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"gonum.org/v1/gonum/stat"
)

type Method int

const (
	MethodBorder Method = iota
	MethodDominant
	MethodKMeans
	MethodNone
)

const (
	// minBorderShare is the fraction of edge pixels the most frequent colour
	// must cover before it counts as a background.
	minBorderShare = 0.5
	// maxLumaStdDev rejects busy borders before clustering.
	maxLumaStdDev = 0.25
	// kmeansClusters is the number of clusters searched on the border.
	kmeansClusters = 3
	// kmeansIterations bounds the assignment and update rounds.
	kmeansIterations = 32
)

func (m Method) String() string {
	switch m {
	case MethodDominant:
		return "dominant"
	case MethodKMeans:
		return "kmeans"
	case MethodNone:
		return "none"
	default:
		return "border"
	}
}

// ParseMethod parses the name returned by Method.String.
func ParseMethod(name string) (Method, error) {
	for _, m := range []Method{MethodBorder, MethodDominant, MethodKMeans, MethodNone} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return MethodBorder, fmt.Errorf("unknown background method %q (border, dominant, kmeans, none)", name)
}

// Detect returns the background colour of img. A colour with zero alpha
// means no background was found and transparency should not be applied.
func Detect(img image.Image, method Method) color.NRGBA {
	pixels := Border(img)
	if len(pixels) == 0 {
		return color.NRGBA{}
	}
	switch method {
	case MethodNone:
		return color.NRGBA{}
	case MethodDominant:
		if !uniform(pixels) {
			return color.NRGBA{}
		}
		return dominant(pixels)
	case MethodKMeans:
		if !uniform(pixels) {
			return color.NRGBA{}
		}
		return kmeansCentre(pixels)
	default:
		return mode(pixels)
	}
}

// Border returns the edge pixels of img, each pixel once, clockwise from the
// top-left corner.
func Border(img image.Image) []color.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
	var out []color.NRGBA
	for x := b.Min.X; x < b.Max.X; x++ {
		out = append(out, at(x, b.Min.Y))
	}
	for y := b.Min.Y + 1; y < b.Max.Y; y++ {
		out = append(out, at(b.Max.X-1, y))
	}
	if b.Dy() > 1 {
		for x := b.Max.X - 2; x >= b.Min.X; x-- {
			out = append(out, at(x, b.Max.Y-1))
		}
	}
	if b.Dx() > 1 {
		for y := b.Max.Y - 2; y > b.Min.Y; y-- {
			out = append(out, at(b.Min.X, y))
		}
	}
	return out
}

func mode(pixels []color.NRGBA) color.NRGBA {
	counts := make(map[color.NRGBA]int)
	var best color.NRGBA
	bestN := 0
	for _, p := range pixels {
		counts[p]++
		if n := counts[p]; n > bestN {
			best, bestN = p, n
		}
	}
	if float64(bestN) < minBorderShare*float64(len(pixels)) {
		return color.NRGBA{}
	}
	return best
}

func uniform(pixels []color.NRGBA) bool {
	luma := make([]float64, len(pixels))
	lumaBatch(pixels, luma)
	_, sd := stat.MeanStdDev(luma, nil)
	return sd <= maxLumaStdDev
}

func dominant(pixels []color.NRGBA) color.NRGBA {
	// Lay the border out as a near square so that downscaling inside
	// dominantcolor keeps every row.
	w := int(math.Ceil(math.Sqrt(float64(len(pixels)))))
	h := (len(pixels) + w - 1) / w
	patch := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		patch.SetNRGBA(i%w, i/w, pixels[i%len(pixels)])
	}
	candidates := dominantcolor.FindWeight(patch, 4)
	if len(candidates) == 0 {
		return mode(pixels)
	}
	best := slices.MaxFunc(candidates, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight < b.Weight:
			return -1
		case a.Weight > b.Weight:
			return 1
		}
		return 0
	})
	c, _ := colorful.MakeColor(best.RGBA)
	return nearest(pixels, c)
}

// kmeansCentre clusters the border colours and returns the most populated
// cluster snapped to a real border colour. Centres start from the most
// frequent colour and then the farthest remaining colours, so the result
// does not depend on a random source.
func kmeansCentre(pixels []color.NRGBA) color.NRGBA {
	dataset := make(clusters.Observations, len(pixels))
	for i, p := range pixels {
		dataset[i] = rgb(p)
	}
	cc := seedClusters(pixels, kmeansClusters)
	if len(cc) == 0 {
		return mode(pixels)
	}

	assigned := make([]int, len(dataset))
	for iter := 0; iter < kmeansIterations; iter++ {
		cc.Reset()
		changes := 0
		for i, o := range dataset {
			ci := cc.Nearest(o)
			cc[ci].Append(o)
			if iter == 0 || assigned[i] != ci {
				assigned[i] = ci
				changes++
			}
		}
		for i := range cc {
			if len(cc[i].Observations) > 0 {
				cc[i].Recenter()
			}
		}
		if changes == 0 {
			break
		}
	}

	biggest := slices.MaxFunc(cc, func(a, b clusters.Cluster) int {
		return len(a.Observations) - len(b.Observations)
	})
	c := colorful.Color{R: biggest.Center[0], G: biggest.Center[1], B: biggest.Center[2]}.Clamped()
	return nearest(pixels, c)
}

// seedClusters picks up to k distinct colours as initial centres: the most
// frequent one first, then repeatedly the colour farthest from every centre
// chosen so far. Ties go to the more frequent, then the lower, colour.
func seedClusters(pixels []color.NRGBA, k int) clusters.Clusters {
	counts := make(map[color.NRGBA]int)
	for _, p := range pixels {
		counts[p]++
	}
	distinct := slices.Collect(maps.Keys(counts))
	slices.SortFunc(distinct, func(a, b color.NRGBA) int {
		if d := counts[b] - counts[a]; d != 0 {
			return d
		}
		return cmp.Compare(packed(a), packed(b))
	})

	var cc clusters.Clusters
	for len(cc) < min(k, len(distinct)) {
		next, nextD := -1, -1.0
		for i, c := range distinct {
			d := math.Inf(1)
			for _, cl := range cc {
				d = math.Min(d, rgb(c).Distance(cl.Center))
			}
			if d > nextD {
				next, nextD = i, d
			}
		}
		if len(cc) > 0 && nextD <= 0 {
			break
		}
		cc = append(cc, clusters.Cluster{Center: rgb(distinct[next])})
	}
	return cc
}

func rgb(p color.NRGBA) clusters.Coordinates {
	return clusters.Coordinates{float64(p.R) / 255, float64(p.G) / 255, float64(p.B) / 255}
}

func packed(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// nearest snaps an estimated colour to the closest colour that actually
// occurs on the border, so that an exact transparency key still matches.
func nearest(pixels []color.NRGBA, target colorful.Color) color.NRGBA {
	var best color.NRGBA
	bestD := -1.0
	seen := make(map[color.NRGBA]struct{})
	for _, p := range pixels {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		c, _ := colorful.MakeColor(p)
		if d := c.DistanceLab(target); bestD < 0 || d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// Within reports whether c lies within the CIE76 distance fuzz of key.
// A fuzz of zero requires an exact match including alpha.
func Within(c, key color.NRGBA, fuzz float64) bool {
	if c == key {
		return true
	}
	if fuzz <= 0 || c.A != key.A {
		return false
	}
	a, _ := colorful.MakeColor(c)
	b, _ := colorful.MakeColor(key)
	return a.DistanceLab(b) <= fuzz
}
