package seed

import "time"

// Config holds configuration for the capture seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Rounds     int           // Number of submission rounds per team
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Challenge  string        // Challenge name recorded on the first round
	OutputFile string        // Output file for generated submissions
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Submission is the payload sent to the capture endpoint.
type Submission struct {
	SubmissionID string             `json:"submissionId"`
	Team         string             `json:"team"`
	Challenge    string             `json:"challenge,omitempty"`
	TargetTotal  string             `json:"targetTotal,omitempty"`
	FinishTime   string             `json:"finishTime,omitempty"`
	PlayerPoints map[string]float64 `json:"playerPoints"`
}

// Roster is one team as returned by the teams endpoint.
type Roster struct {
	Name    string   `json:"team"`
	Players []string `json:"players"`
}

// Receipt is the response from a capture submission.
type Receipt struct {
	Status   string `json:"status"`
	Key      string `json:"key"`
	Revision string `json:"revision"`
}

// Scoreboard mirrors the parts of the scoreboard response the
// verification step inspects.
type Scoreboard struct {
	Meta struct {
		Label     string `json:"label"`
		Challenge string `json:"challenge"`
	} `json:"meta"`
	Participants []struct {
		Name        string `json:"name"`
		Team        string `json:"team"`
		Quantity    int    `json:"quantity"`
		TotalPoints int    `json:"totalPoints"`
	} `json:"participants"`
}

// Stats holds run statistics.
type Stats struct {
	SubmissionsGenerated int
	SubmissionsSent      int
	SubmissionsSaved     int
	SubmissionsDuplicate int
	SubmissionsFailed    int
	ParticipantsSeen     int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
