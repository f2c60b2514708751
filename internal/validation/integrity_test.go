package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"seedforge/internal/domain"
)

type IntegritySuite struct {
	suite.Suite
	checker *IntegrityChecker
	now     time.Time
}

func TestIntegritySuite(t *testing.T) {
	suite.Run(t, new(IntegritySuite))
}

func (s *IntegritySuite) SetupTest() {
	checker, err := NewIntegrityChecker(0.95, 0.99)
	s.Require().NoError(err)
	s.checker = checker
	s.now = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
}

// smallCorpus builds one fully linked org/team/user/project/section chain
// with a single completed, correctly ordered task.
func (s *IntegritySuite) smallCorpus() *domain.Corpus {
	org := domain.Organization{ID: uuid.New(), Name: "acme", CreatedAt: s.now.AddDate(0, -2, 0)}
	team := domain.Team{ID: uuid.New(), OrganizationID: org.ID, Department: "engineering"}
	user := domain.User{ID: uuid.New(), OrganizationID: org.ID, Department: "engineering"}
	project := domain.Project{ID: uuid.New(), TeamID: team.ID, Department: "engineering", WorkItemType: "sprint"}
	section := domain.Section{ID: uuid.New(), ProjectID: project.ID}

	created := s.now.AddDate(0, -1, 0)
	started := created.Add(4 * time.Hour)
	completed := created.Add(26 * time.Hour)
	cycle := completed.Sub(started).Hours() / 24
	lead := completed.Sub(created).Hours() / 24

	task := domain.Task{
		ID:         uuid.New(),
		ProjectID:  project.ID,
		SectionID:  section.ID,
		AssigneeID: &user.ID,
		Lifecycle: domain.LifecycleRecord{
			CreatedAt:     created,
			StartedAt:     &started,
			CompletedAt:   &completed,
			CycleTimeDays: &cycle,
			LeadTimeDays:  &lead,
		},
	}

	return &domain.Corpus{
		Organizations: []domain.Organization{org},
		Teams:         []domain.Team{team},
		Users:         []domain.User{user},
		Memberships:   []domain.TeamMembership{{TeamID: team.ID, UserID: user.ID, Role: "member"}},
		Projects:      []domain.Project{project},
		Sections:      []domain.Section{section},
		Tasks:         []domain.Task{task},
	}
}

func (s *IntegritySuite) resultFor(results []Result, cat Category) Result {
	for _, r := range results {
		if r.Category == cat {
			return r
		}
	}
	s.FailNow("missing category", "%s", cat)
	return Result{}
}

func (s *IntegritySuite) TestCleanCorpusPasses() {
	results := s.checker.Check(s.smallCorpus(), s.now)
	s.Require().Len(results, 2)

	temporal := s.resultFor(results, CategoryTemporal)
	s.Equal(StatusSuccess, temporal.Status)
	s.InDelta(1.0, temporal.Metric, 1e-9)

	referential := s.resultFor(results, CategoryReferential)
	s.Equal(StatusSuccess, referential.Status)
	s.InDelta(1.0, referential.Metric, 1e-9)
}

func (s *IntegritySuite) TestEmptyCorpusIsVacuouslyConsistent() {
	results := s.checker.Check(&domain.Corpus{}, s.now)
	for _, r := range results {
		s.Equal(StatusSuccess, r.Status)
		s.Zero(r.SampleSize)
	}
}

func (s *IntegritySuite) TestDanglingProjectReferenceFails() {
	corpus := s.smallCorpus()
	corpus.Tasks[0].ProjectID = uuid.New()

	referential := s.resultFor(s.checker.Check(corpus, s.now), CategoryReferential)
	s.Equal(StatusFailure, referential.Status)
	s.Less(referential.Metric, 0.99)
	s.Contains(referential.Details, "1 violations")
}

func (s *IntegritySuite) TestFutureCreationFailsTemporal() {
	corpus := s.smallCorpus()
	corpus.Tasks[0].Lifecycle.CreatedAt = s.now.Add(48 * time.Hour)

	temporal := s.resultFor(s.checker.Check(corpus, s.now), CategoryTemporal)
	s.Equal(StatusFailure, temporal.Status)
}

func (s *IntegritySuite) TestCompletionBeforeStartFailsTemporal() {
	corpus := s.smallCorpus()
	task := &corpus.Tasks[0]
	early := task.Lifecycle.StartedAt.Add(-2 * time.Hour)
	task.Lifecycle.CompletedAt = &early

	temporal := s.resultFor(s.checker.Check(corpus, s.now), CategoryTemporal)
	s.Equal(StatusFailure, temporal.Status)
}

func (s *IntegritySuite) TestCommentPredatingTaskFailsTemporal() {
	corpus := s.smallCorpus()
	task := corpus.Tasks[0]
	corpus.Comments = []domain.Comment{{
		ID:        uuid.New(),
		TaskID:    task.ID,
		AuthorID:  corpus.Users[0].ID,
		CreatedAt: task.Lifecycle.CreatedAt.Add(-time.Hour),
	}}

	temporal := s.resultFor(s.checker.Check(corpus, s.now), CategoryTemporal)
	// One violation over two checked records stays under the 0.95 bar.
	s.Equal(StatusFailure, temporal.Status)
	s.Equal(2, temporal.SampleSize)
}

func (s *IntegritySuite) TestDanglingFieldValueFails() {
	corpus := s.smallCorpus()
	def := domain.FieldDefinition{
		ID:             uuid.New(),
		OrganizationID: corpus.Organizations[0].ID,
		Name:           "Story Points",
		Kind:           domain.FieldNumber,
	}
	points := 3.0
	corpus.Fields = []domain.FieldDefinition{def}
	corpus.FieldValues = []domain.FieldValue{{
		ID:           uuid.New(),
		DefinitionID: uuid.New(),
		TaskID:       corpus.Tasks[0].ID,
		Number:       &points,
		CreatedAt:    corpus.Tasks[0].Lifecycle.CreatedAt,
	}}

	referential := s.resultFor(s.checker.Check(corpus, s.now), CategoryReferential)
	s.Equal(StatusFailure, referential.Status)
	s.Contains(referential.Details, "1 violations")
}

func (s *IntegritySuite) TestFieldValuePredatingTaskFailsTemporal() {
	corpus := s.smallCorpus()
	def := domain.FieldDefinition{
		ID:             uuid.New(),
		OrganizationID: corpus.Organizations[0].ID,
		Name:           "Priority",
		Kind:           domain.FieldEnum,
		Options:        []string{"High", "Medium", "Low"},
	}
	option := "High"
	corpus.Fields = []domain.FieldDefinition{def}
	corpus.FieldValues = []domain.FieldValue{{
		ID:           uuid.New(),
		DefinitionID: def.ID,
		TaskID:       corpus.Tasks[0].ID,
		Option:       &option,
		CreatedAt:    corpus.Tasks[0].Lifecycle.CreatedAt.Add(-time.Hour),
	}}

	temporal := s.resultFor(s.checker.Check(corpus, s.now), CategoryTemporal)
	s.Equal(StatusFailure, temporal.Status)
}

func (s *IntegritySuite) TestToleranceBounds() {
	_, err := NewIntegrityChecker(-0.1, 0.99)
	s.Error(err)
	_, err = NewIntegrityChecker(0.95, 1.5)
	s.Error(err)
}
