package colour

import (
	"fmt"
	"image"
	"math"
	"math/rand"
)

// WeightedColour is a dominant colour together with the fraction of sampled
// pixels that fell into its cluster.
type WeightedColour struct {
	RGB    RGB
	Weight float64
}

const (
	dominantMaxSamples    = 2000
	dominantMaxIterations = 20
	dominantConvergence   = 2.0
)

// DominantColours extracts the k most dominant colours from an image using
// k-means clustering over a grid sample of its pixels. Results are ordered by
// descending weight. A fixed seed keeps the extraction deterministic for a
// given image, which matters for suggest-accent output stability.
func DominantColours(img image.Image, k int) ([]WeightedColour, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if k < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", k)
	}

	points := samplePixels(img)
	if len(points) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(1))
	centroids := initCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < dominantMaxIterations; iter++ {
		changed := 0
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		next := recentre(points, assignments, k, rng)
		movement := 0.0
		for i := range centroids {
			movement += centroids[i].distance(next[i])
		}
		centroids = next
		if movement/float64(k) < dominantConvergence {
			break
		}
	}

	weights := make([]float64, k)
	for _, a := range assignments {
		weights[a]++
	}

	out := make([]WeightedColour, k)
	total := float64(len(assignments))
	for i, c := range centroids {
		out[i] = WeightedColour{
			RGB:    RGB{R: uint8(c.r), G: uint8(c.g), B: uint8(c.b)},
			Weight: weights[i] / total,
		}
	}

	// Order by descending weight so callers can take the head as "dominant".
	for i := 0; i < len(out)-1; i++ {
		for j := 0; j < len(out)-i-1; j++ {
			if out[j].Weight < out[j+1].Weight {
				out[j], out[j+1] = out[j+1], out[j]
			}
		}
	}

	return out, nil
}

// point3 represents a point in 3D RGB colour space.
type point3 struct {
	r, g, b float64
}

func (p point3) distance(o point3) float64 {
	dr := p.r - o.r
	dg := p.g - o.g
	db := p.b - o.b
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// samplePixels grid-samples up to dominantMaxSamples pixels from the image.
func samplePixels(img image.Image) []point3 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()

	step := 1
	if total > dominantMaxSamples {
		step = max(int(math.Sqrt(float64(total)/float64(dominantMaxSamples))), 1)
	}

	points := make([]point3, 0, dominantMaxSamples)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			points = append(points, point3{
				r: float64(r >> 8),
				g: float64(g >> 8),
				b: float64(b >> 8),
			})
			if len(points) >= dominantMaxSamples {
				return points
			}
		}
	}
	return points
}

// initCentroids seeds centroids using the k-means++ strategy: the first is
// drawn at random, each subsequent one with probability proportional to its
// squared distance from the nearest existing centroid.
func initCentroids(points []point3, k int, rng *rand.Rand) []point3 {
	centroids := make([]point3, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		total := 0.0
		for i, p := range points {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := p.distance(c); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		if total == 0 {
			// Remaining points coincide with existing centroids; nudge a copy.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3{r: last.r + 0.1, g: last.g + 0.1, b: last.b + 0.1})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				centroids = append(centroids, points[i])
				break
			}
		}
	}

	return centroids
}

func nearestCentroid(p point3, centroids []point3) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := p.distance(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

func recentre(points []point3, assignments []int, k int, rng *rand.Rand) []point3 {
	sums := make([]point3, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		sums[c].r += p.r
		sums[c].g += p.g
		sums[c].b += p.b
		counts[c]++
	}

	centroids := make([]point3, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3{
				r: sums[i].r / float64(counts[i]),
				g: sums[i].g / float64(counts[i]),
				b: sums[i].b / float64(counts[i]),
			}
		} else {
			centroids[i] = points[rng.Intn(len(points))]
		}
	}
	return centroids
}
