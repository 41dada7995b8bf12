// Package seed generates a realistic demo workspace: users, twins,
// and a daily session history with messages, drafted documents, and
// retrieval queries. Row ids are random UUIDs, but the generated
// shape and counts are deterministic for a given rand source.
package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twinlabs/twinsight/internal/db"
	"github.com/twinlabs/twinsight/internal/timeutil"
)

// Options controls the generated workspace shape. Zero values fall
// back to the defaults used by the demo fixture.
type Options struct {
	Users int        // number of users, default 12
	Days  int        // history length ending at Now, default 90
	Now   time.Time  // end of the history window, default wall clock
	Rand  *rand.Rand // randomness source, default fixed seed
}

// Summary reports how many rows were generated.
type Summary struct {
	Users     int
	Twins     int
	Sessions  int
	Messages  int
	Documents int
	Queries   int
}

var (
	companies   = []string{"Acme Corp", "Tech Innovations", "Global Solutions"}
	departments = []string{"Engineering", "Product", "Marketing", "Sales", "Operations"}

	firstNames = []string{
		"Alice", "Bob", "Carol", "David", "Erin", "Frank",
		"Grace", "Henry", "Iris", "Jack", "Karen", "Liam",
		"Mona", "Noah", "Olga", "Peter",
	}
	lastNames = []string{
		"Nguyen", "Smith", "Garcia", "Kim", "Patel", "Brown",
		"Okafor", "Larsen", "Tanaka", "Weber", "Costa", "Ivanov",
		"Hughes", "Moreau", "Silva", "Khan",
	}

	twinNames = []string{
		"AI Assistant", "Work Twin", "Personal AI", "Smart Helper",
		"Data Twin", "Info Bot", "Doc Generator", "Team Assistant",
		"Research Helper", "Meeting Twin", "Email Twin", "Knowledge Bot",
	}

	conversationTopics = []string{
		"Q4 planning strategy", "project status update",
		"client meeting preparation", "team schedule coordination",
		"budget allocation", "product roadmap discussion",
		"performance review data", "marketing campaign ideas",
	}

	documentTypes = []string{
		"proposal", "report", "email", "summary",
		"presentation", "specification",
	}

	queryTopics = []string{
		"email history about client meeting",
		"previous project documentation",
		"budget information from past emails",
		"meeting notes from last month",
		"team availability data", "expense reports",
		"contract details", "performance metrics",
	}

	querySources = []string{
		"Email archive", "Document library", "Meeting notes",
		"CRM records", "Shared drive", "Calendar history",
	}
)

type generator struct {
	db  *db.DB
	rng *rand.Rand
	sum Summary
}

// Seed populates database with a generated workspace and returns the
// row counts.
func Seed(database *db.DB, opts Options) (Summary, error) {
	if opts.Users <= 0 {
		opts.Users = 12
	}
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}

	g := &generator{db: database, rng: opts.Rand}

	windowStart := opts.Now.AddDate(0, 0, -opts.Days)

	users, err := g.createUsers(opts.Users, windowStart)
	if err != nil {
		return g.sum, err
	}
	twins, err := g.createTwins(users, windowStart)
	if err != nil {
		return g.sum, err
	}
	if err := g.createHistory(users, twins, windowStart, opts.Days); err != nil {
		return g.sum, err
	}
	return g.sum, nil
}

func (g *generator) createUsers(n int, windowStart time.Time) ([]db.User, error) {
	users := make([]db.User, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[g.rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s%d@company.com",
			strings.ToLower(first), strings.ToLower(last), i)
		company := companies[g.rng.Intn(len(companies))]
		department := departments[g.rng.Intn(len(departments))]

		// Accounts predate the activity window by 3-6 months.
		created := windowStart.AddDate(0, 0, -90-g.rng.Intn(90))

		u := db.User{
			ID:         uuid.NewString(),
			Email:      email,
			FullName:   first + " " + last,
			Company:    &company,
			Department: &department,
			CreatedAt:  timeutil.Format(created),
		}
		if err := g.db.InsertUser(u); err != nil {
			return nil, err
		}
		users = append(users, u)
		g.sum.Users++
	}
	return users, nil
}

func (g *generator) createTwins(users []db.User, windowStart time.Time) ([]db.Twin, error) {
	owners := users
	if len(owners) > 8 {
		owners = owners[:8]
	}

	var twins []db.Twin
	for i, owner := range owners {
		count := 1
		if i%2 == 1 {
			count = 2
		}
		for j := 0; j < count; j++ {
			name := fmt.Sprintf("%s's %s",
				owner.FullName, twinNames[len(twins)%len(twinNames)])
			desc := "AI Twin for " + owner.FullName
			created := windowStart.AddDate(0, 0, -30-g.rng.Intn(60))

			tw := db.Twin{
				ID:          uuid.NewString(),
				UserID:      owner.ID,
				Name:        name,
				Description: &desc,
				IsShared:    g.rng.Intn(3) < 2,
				CreatedAt:   timeutil.Format(created),
			}
			if err := g.db.InsertTwin(tw); err != nil {
				return nil, err
			}
			twins = append(twins, tw)
			g.sum.Twins++
		}
	}
	return twins, nil
}

func (g *generator) createHistory(
	users []db.User, twins []db.Twin,
	windowStart time.Time, days int,
) error {
	for offset := 0; offset < days; offset++ {
		day := windowStart.AddDate(0, 0, offset)

		// Weekdays see roughly twice the traffic.
		var active int
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			active = 4 + g.rng.Intn(4)
		} else {
			active = 8 + g.rng.Intn(4)
		}
		if active > len(users) {
			active = len(users)
		}

		for _, idx := range g.rng.Perm(len(users))[:active] {
			user := users[idx]
			sessions := 1 + g.rng.Intn(3)
			for i := 0; i < sessions; i++ {
				if err := g.createSession(user, twins, day); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// pickTwin chooses the user's own twin 80% of the time, otherwise a
// shared twin owned by someone else.
func (g *generator) pickTwin(user db.User, twins []db.Twin) db.Twin {
	var own, shared []db.Twin
	for _, tw := range twins {
		if tw.UserID == user.ID {
			own = append(own, tw)
		} else if tw.IsShared {
			shared = append(shared, tw)
		}
	}
	if len(own) > 0 && (len(shared) == 0 || g.rng.Float64() < 0.8) {
		return own[g.rng.Intn(len(own))]
	}
	if len(shared) > 0 {
		return shared[g.rng.Intn(len(shared))]
	}
	return twins[g.rng.Intn(len(twins))]
}

func (g *generator) createSession(
	user db.User, twins []db.Twin, day time.Time,
) error {
	twin := g.pickTwin(user, twins)
	started := time.Date(
		day.Year(), day.Month(), day.Day(),
		8+g.rng.Intn(11), g.rng.Intn(60), g.rng.Intn(60), 0, time.UTC,
	)

	var title *string
	if g.rng.Float64() < 0.6 {
		t := "Conversation about " +
			conversationTopics[g.rng.Intn(len(conversationTopics))]
		title = &t
	}

	sess := db.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		TwinID:       twin.ID,
		IsSharedTwin: twin.UserID != user.ID,
		Title:        title,
		StartedAt:    timeutil.Format(started),
	}
	if err := g.db.InsertSession(sess); err != nil {
		return err
	}
	g.sum.Sessions++

	// Roughly 15% of sessions draft a document and 30% run a
	// retrieval query; both land on a twin message.
	wantDoc := g.rng.Float64() < 0.15
	wantQuery := g.rng.Float64() < 0.30

	msgCount := 3 + g.rng.Intn(10)
	for i := 0; i < msgCount; i++ {
		at := started.Add(time.Duration(i*30) * time.Second)
		sender := db.SenderUser
		if i%2 == 1 {
			sender = db.SenderTwin
		}

		msg := db.Message{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			Sender:    sender,
			Content:   g.messageContent(sender, i),
			CreatedAt: timeutil.Format(at),
		}

		attachDoc := wantDoc && sender == db.SenderTwin
		attachQuery := wantQuery && sender == db.SenderTwin && !attachDoc
		switch {
		case attachDoc && wantQuery:
			msg.MessageType = "document,query"
		case attachDoc:
			msg.MessageType = "document"
		case attachQuery:
			msg.MessageType = "query"
		}
		if err := g.db.InsertMessage(msg); err != nil {
			return err
		}
		g.sum.Messages++

		if attachDoc {
			if err := g.createDocument(sess.ID, msg.ID, at); err != nil {
				return err
			}
			wantDoc = false
			if wantQuery {
				if err := g.createQuery(sess.ID, msg.ID, at); err != nil {
					return err
				}
				wantQuery = false
			}
		} else if attachQuery {
			if err := g.createQuery(sess.ID, msg.ID, at); err != nil {
				return err
			}
			wantQuery = false
		}
	}
	return nil
}

func (g *generator) messageContent(sender string, index int) string {
	if sender == db.SenderUser {
		if index == 0 {
			return "Can you help me with " +
				conversationTopics[g.rng.Intn(len(conversationTopics))] + "?"
		}
		options := []string{
			"What information do we have on this?",
			"Can you summarize the key points?",
			"What are the next steps?",
			"Can you provide more details?",
			"Thanks, that's helpful!",
		}
		return options[g.rng.Intn(len(options))]
	}
	options := []string{
		"I found several relevant emails and documents. Here's what I found...",
		"Based on your previous communications, here are the key details...",
		"I've analyzed your recent activity and can provide the following insights...",
		"The next steps would be to follow up with the team and schedule a meeting.",
		"You're welcome! Let me know if you need anything else.",
	}
	return options[g.rng.Intn(len(options))]
}

func (g *generator) createDocument(sessionID, messageID string, at time.Time) error {
	docType := documentTypes[g.rng.Intn(len(documentTypes))]
	title := fmt.Sprintf("%s - %s",
		strings.ToUpper(docType[:1])+docType[1:],
		at.Format(timeutil.DateFormat))
	content := fmt.Sprintf(
		"This is a %s document generated by the AI Twin.", docType)
	words := 100 + g.rng.Intn(901)

	doc := db.Document{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		MessageID:    &messageID,
		Title:        title,
		DocumentType: &docType,
		Content:      &content,
		WordCount:    &words,
		CreatedAt:    timeutil.Format(at),
	}
	if err := g.db.InsertDocument(doc); err != nil {
		return err
	}
	g.sum.Documents++
	return nil
}

func (g *generator) createQuery(sessionID, messageID string, at time.Time) error {
	count := 2 + g.rng.Intn(2)
	sources := make([]string, 0, count)
	for _, idx := range g.rng.Perm(len(querySources))[:count] {
		sources = append(sources, querySources[idx])
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshaling sources: %w", err)
	}
	sourcesJSON := string(raw)
	queryType := "general"
	results := 1 + g.rng.Intn(8)

	q := db.Query{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		MessageID:    &messageID,
		QueryText:    queryTopics[g.rng.Intn(len(queryTopics))],
		QueryType:    &queryType,
		ResultsCount: results,
		SourcesJSON:  &sourcesJSON,
		CreatedAt:    timeutil.Format(at),
	}
	if err := g.db.InsertQuery(q); err != nil {
		return err
	}
	g.sum.Queries++
	return nil
}
