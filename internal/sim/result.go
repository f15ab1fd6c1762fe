package sim

// ResultRecord is one emitted Pareto-front member, the JSON shape written by
// every cmd/evacsim subcommand.
type ResultRecord struct {
	Gene          []bool     `json:"gene"`
	DoorPositions [][][2]int `json:"door_positions_grouped"`
	Objectives    []float64  `json:"objectives"`
	NumDoors      int        `json:"num_doors"`
	Iterations    float64    `json:"iterations"`
	Distance      float64    `json:"distance"`
	Generation    uint32     `json:"generation"`
	Algorithm     string     `json:"algorithm"`
}

// AlgorithmNSGA2 and AlgorithmNSGA2ThreeObj tag ResultRecord.Algorithm:
// the three-objective variant is a distinct tag so consumers don't need to
// inspect len(Objectives) to know the schema.
const (
	AlgorithmNSGA2         = "nsga2"
	AlgorithmNSGA2ThreeObj = "nsga2-3obj"
	AlgorithmBruteForce    = "brute-force"
)

// BuildResultRecords converts a Pareto front into ResultRecords, grouping
// each chromosome's active gene bits back into the DoorSlot coordinates
// they correspond to.
func BuildResultRecords(front []*Chromosome, slots []DoorSlot, algorithm string) []ResultRecord {
	out := make([]ResultRecord, len(front))
	for i, c := range front {
		var doorPositions [][][2]int
		for bit, active := range c.Gene {
			if !active || bit >= len(slots) {
				continue
			}
			doorPositions = append(doorPositions, slots[bit].cells())
		}

		rec := ResultRecord{
			Gene:          []bool(c.Gene.clone()),
			DoorPositions: doorPositions,
			Objectives:    []float64(c.Obj),
			NumDoors:      c.Gene.PopCount(),
			Distance:      c.Obj[len(c.Obj)-1],
			Generation:    c.Generation,
			Algorithm:     algorithm,
		}
		if rec.NumDoors == 0 {
			// The distance objective for a door-less layout is saturated so
			// minimization never prefers it; the observed travel is 0.
			rec.Distance = 0
		}
		if len(c.Obj) == 3 {
			rec.Iterations = c.Obj[1]
		}
		out[i] = rec
	}
	return out
}
