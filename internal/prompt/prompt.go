// Package prompt renders the generation instructions sent to the language
// model. Rendering is deterministic and never fails; missing profile fields
// simply come out empty.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
)

// LetterRequest is the job posting a cover letter is generated for.
type LetterRequest struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
}

// BuildCoverLetterPrompt renders the fixed instruction template embedding the
// candidate profile and the job posting.
func BuildCoverLetterPrompt(profile *domain.Profile, req LetterRequest) string {
	var name, summary string
	var skills []string
	if profile != nil {
		if profile.Name != nil {
			name = *profile.Name
		}
		if profile.Summary != nil {
			summary = *profile.Summary
		}
		skills = profile.Skills
	}

	return fmt.Sprintf(
		"You are an expert career coach. Using the information provided, write a professional, engaging cover letter.\n\n"+
			"Candidate Name: %s\n"+
			"Candidate Skills: %s\n"+
			"Candidate Summary: %s\n\n"+
			"Company: %s\n"+
			"Job Title: %s\n"+
			"Job Description: %s\n\n"+
			"Respond with only the cover letter body, without salutations or closings.",
		name,
		strings.Join(skills, ", "),
		summary,
		req.CompanyName,
		req.JobTitle,
		req.JobDescription,
	)
}
