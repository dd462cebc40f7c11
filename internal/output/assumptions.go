package output

// ModelNotes lists the modelling conventions rendered with detailed outputs.
var ModelNotes = []string{
	"Service gross profit is 100% of service revenue; fitting and gait labour sits in the staff line",
	"Tourist and event-week sales share the tourist basket margin",
	"Monthly turnover is the annual figure spread by uplift weights (May/Sep shoulder, Jun–Aug summer)",
	"Currency is rounded half to even to the nearest pound for display only",
}
