package grade

// Distribution counts records per letter grade. All bands are always present.
type Distribution [LetterCount]int

// Bucket is one band of a distribution, used for ordered output.
type Bucket struct {
	Grade Letter `json:"grade" yaml:"grade"`
	Count int    `json:"count" yaml:"count"`
}

// Add increments the count of band l.
func (d *Distribution) Add(l Letter) {
	d[l]++
}

// Count returns the count of band l.
func (d Distribution) Count(l Letter) int {
	return d[l]
}

// Total returns the sum across all bands.
func (d Distribution) Total() int {
	var n int
	for _, v := range d {
		n += v
	}
	return n
}

// Buckets lists the bands from A+ down to E.
func (d Distribution) Buckets() []Bucket {
	list := make([]Bucket, 0, LetterCount)
	for _, l := range Letters() {
		list = append(list, Bucket{Grade: l, Count: d[l]})
	}
	return list
}
