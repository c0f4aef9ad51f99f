package learning

import (
	"context"

	"shelfcheck/internal/services"
)

// predictedPhantomThreshold is the risk score at or above which the scoring
// pass is treated as having predicted a phantom for accuracy computation.
const predictedPhantomThreshold = 50.0

type localClient struct{}

// NewLocalClient returns the offline learning client. It computes accuracy as
// the share of records whose physical outcome matched the scorer's
// prediction and always advances the workflow by one sheet.
func NewLocalClient() Client {
	return localClient{}
}

func (localClient) SubmitValidation(_ context.Context, submission Submission) (*Outcome, error) {
	if len(submission.Records) == 0 {
		return nil, services.Wrap(services.ErrValidation, "learning", "submit", "no records in submission", nil)
	}

	matched := 0
	for _, record := range submission.Records {
		predicted := record.RiskScore >= predictedPhantomThreshold
		if predicted == record.WasPhantom {
			matched++
		}
	}
	accuracy := float64(matched) / float64(len(submission.Records))

	completed := submission.CompletedSheets + 1
	if completed > submission.TotalSheets {
		completed = submission.TotalSheets
	}
	return &Outcome{
		Accuracy: accuracy,
		// Each verified sheet tightens future scoring proportionally to how
		// much of the prediction it confirmed.
		LearningImprovement: accuracy * float64(len(submission.Records)) / 100.0,
		SheetCompletion: SheetCompletion{
			CompletedSheetID: submission.SheetID,
			HasNextSheet:     completed < submission.TotalSheets,
			TotalSheets:      submission.TotalSheets,
			CompletedSheets:  completed,
		},
	}, nil
}
