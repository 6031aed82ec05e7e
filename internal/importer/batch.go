package importer

import (
	"fmt"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// PendingResponse is an answer waiting for its interview to exist remotely.
type PendingResponse struct {
	InterviewID int64
	ContactID   int64
	QuestionID  int64
	Answer      any
	CompletedAt *time.Time
}

// Batch is the normalized form of a set of records.
type Batch struct {
	Contacts   []model.CreateContactReq
	Interviews []model.CreateInterviewReq
	Responses  []PendingResponse
	// Rejected maps a record's position to why it could not be used.
	Rejected map[int]string
}

// timeLayouts are tried in order for the call date columns.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Normalize converts records into a deduplicated batch. Records without a
// usable CUID or serial number are rejected and reported, not fatal.
func (n *Normalizer) Normalize(records []Record) Batch {
	b := Batch{Rejected: map[int]string{}}
	contactPos := map[int64]int{}
	interviewPos := map[int64]int{}
	responsePos := map[[2]int64]int{}
	addResponse := func(r PendingResponse) {
		upsert(&b.Responses, responsePos, [2]int64{r.InterviewID, r.QuestionID}, r)
	}

	for i, rec := range records {
		cuid, err := rec.ID(ColCUID)
		if err != nil {
			b.Rejected[i] = err.Error()
			continue
		}
		serial, err := rec.ID(ColSerialNumber)
		if err != nil {
			b.Rejected[i] = err.Error()
			continue
		}

		name := rec.String(ColName)
		phone := rec.String(ColPhone)
		region := n.Region(rec.String(ColLocation))
		startedAt := parseTime(rec.String(ColStartTime))
		if startedAt == nil {
			startedAt = parseTime(rec.String(ColCallDate))
		}

		contact := model.CreateContactReq{
			ID:           cuid,
			Name:         name,
			Email:        SyntheticEmail(name),
			Phone:        phone,
			SerialNumber: rec.String(ColSerialNumber),
			CUID:         rec.String(ColCUID),
			TicketNumber: rec.String(ColTicketNumber),
			Location:     region,
			Status:       string(model.ContactStatusNotStarted),
		}
		upsert(&b.Contacts, contactPos, cuid, contact)

		id := serial
		iv := model.CreateInterviewReq{
			ID:                   &id,
			ContactID:            cuid,
			Status:               model.InterviewStatusCompleted,
			Stage:                1,
			CurrentQuestionIndex: 0,
			StartedAt:            startedAt,
			CompletedAt:          startedAt,
		}
		upsert(&b.Interviews, interviewPos, serial, iv)

		for _, m := range n.mappings {
			raw := rec.String(m.Column)
			if raw == "" {
				continue
			}
			var answer any = raw
			if m.Type == model.QuestionTypeScale {
				answer = ScaleValue(raw)
			}
			addResponse(PendingResponse{serial, cuid, m.QuestionID, answer, startedAt})
		}
		addResponse(PendingResponse{serial, cuid, QuestionName, name, startedAt})
		addResponse(PendingResponse{serial, cuid, QuestionPhone, phone, startedAt})
		addResponse(PendingResponse{serial, cuid, QuestionRegion, region, startedAt})
	}
	return b
}

// upsert keeps the first position of id and the last value seen for it.
func upsert[K comparable, T any](list *[]T, pos map[K]int, id K, v T) {
	if i, ok := pos[id]; ok {
		(*list)[i] = v
		return
	}
	pos[id] = len(*list)
	*list = append(*list, v)
}

// ResponsesFor returns the pending responses of one interview.
func (b Batch) ResponsesFor(interviewID int64) []PendingResponse {
	var out []PendingResponse
	for _, r := range b.Responses {
		if r.InterviewID == interviewID {
			out = append(out, r)
		}
	}
	return out
}

func (b Batch) String() string {
	return fmt.Sprintf("%d contacts, %d interviews, %d responses, %d rejected",
		len(b.Contacts), len(b.Interviews), len(b.Responses), len(b.Rejected))
}
