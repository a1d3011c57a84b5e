// internal/workers/matching/record-feedback/models.go
package recordfeedback

type Input struct {
	UserID   string `json:"userId"`
	JobID    string `json:"jobId"`
	Feedback string `json:"feedback"`
}

// Output.Recorded is false when the seeker had no match record for the posting.
type Output struct {
	Recorded bool `json:"recorded"`
}
