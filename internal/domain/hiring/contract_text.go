package hiring

import (
	"fmt"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

// ContractWriter composes the body of a contract
type ContractWriter func(job domain.Job, candidate domain.Candidate, org domain.Organization) (string, error)

const contractTemplate = `This Independent Contractor Agreement ("Agreement") is entered into between %s ("Company") and %s ("Contractor").

1. Services: Contractor agrees to perform services as a %s for the Company.

2. Compensation: The Company agrees to pay the Contractor %s.

3. Term: This Agreement will begin on the date of signing and will continue until terminated by either party with 14 days written notice.

4. Confidentiality: Contractor agrees to keep all Company information confidential.

5. Independent Contractor Status: Contractor is an independent contractor, not an employee of the Company.

IN WITNESS WHEREOF, the parties have executed this Agreement as of the date first written above.`

// ContractText renders the fixed independent contractor agreement
func ContractText(job domain.Job, candidate domain.Candidate, org domain.Organization) string {
	return fmt.Sprintf(contractTemplate, org.Name, candidate.Name, job.Title, candidate.ExpectedRate)
}

// TemplateContract is the default ContractWriter
func TemplateContract(job domain.Job, candidate domain.Candidate, org domain.Organization) (string, error) {
	return ContractText(job, candidate, org), nil
}
