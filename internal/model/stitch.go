package model

// Stitch job statuses, in lifecycle order.
const (
	StitchWaiting     = "WAITING"
	StitchDownloading = "DOWNLOADING"
	StitchStitching   = "STITCHING"
	StitchDone        = "DONE"
	StitchFailed      = "FAILED"
)

// StitchInputFile is one source photo split into storage chunks.
type StitchInputFile struct {
	Name   string   `json:"name"`
	Chunks []string `json:"chunks"`
}

// StitchJob is the payload of a photostitch queue task. Base is "<user>/<batch>"; chunks live under
// <base>/input/ and results are written to <base>/output/.
type StitchJob struct {
	Base       string            `json:"base"`
	InputFiles []StitchInputFile `json:"input_files"`
}

// StitchImagePair names a full-size image and its thumbnail inside the output directory.
type StitchImagePair struct {
	Full  string `json:"full"`
	Thumb string `json:"thumb"`
}

// StitchState is the JSON document published to <base>/output/stitch.state.
type StitchState struct {
	Name       string            `json:"name,omitempty"`
	Status     string            `json:"status"`
	UpdateTime float64           `json:"update_time"`
	OutputBase string            `json:"output_base,omitempty"`
	Input      []StitchImagePair `json:"input,omitempty"`
	Output     *StitchImagePair  `json:"output,omitempty"`
	Log        string            `json:"log,omitempty"`
}
