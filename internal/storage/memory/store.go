package memory

import (
	"sort"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

// Store is the in-process development backend. Records live in
// insertion-ordered slices so reads are deterministic; nothing is persisted
// across runs. It is also the fixture store for the domain tests.
type Store struct {
	settings   models.Settings
	habits     []models.Habit
	checkIns   []models.DailyCheckIn
	qualities  []models.Quality
	statements []models.Statement
	evidence   []models.Evidence
	challenges []models.Challenge
	milestones []models.Milestone
	insights   []models.Insight
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Init() error {
	settings := models.Settings{
		MorningRitual:    constants.DefaultMorningRitual,
		MorningTime:      constants.DefaultMorningTime,
		EveningReview:    constants.DefaultEveningReview,
		EveningTime:      constants.DefaultEveningTime,
		RemindersEnabled: constants.DefaultRemindersEnabled,
		Timezone:         constants.DefaultTimezone,
	}
	s.settings = settings
	return nil
}

func (s *Store) Load() error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return constants.MemoryConfigPath
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	return s.settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	s.settings = settings
	return nil
}

// Habits

func (s *Store) AddHabit(habit models.Habit) error {
	s.habits = append(s.habits, habit)
	return nil
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	for _, h := range s.habits {
		if h.ID == id && h.UserID == userID {
			return h, nil
		}
	}
	return models.Habit{}, storage.ErrNotFound
}

func (s *Store) GetHabitByTitle(userID, title string) (models.Habit, error) {
	for _, h := range s.habits {
		if h.Title == title && h.UserID == userID {
			return h, nil
		}
	}
	return models.Habit{}, storage.ErrNotFound
}

func (s *Store) GetAllHabits(userID string, lane constants.HabitLane) ([]models.Habit, error) {
	var habits []models.Habit
	for _, h := range s.habits {
		if h.UserID != userID {
			continue
		}
		if lane != "" && h.Lane != lane {
			continue
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	for i, h := range s.habits {
		if h.ID == habit.ID && h.UserID == habit.UserID {
			s.habits[i] = habit
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) DeleteHabit(userID, id string) error {
	for i, h := range s.habits {
		if h.ID == id && h.UserID == userID {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// Check-ins

func (s *Store) AddCheckIn(checkIn models.DailyCheckIn) error {
	s.checkIns = append(s.checkIns, checkIn)
	return nil
}

func (s *Store) GetCheckIn(habitID, day string) (models.DailyCheckIn, error) {
	for _, ci := range s.checkIns {
		if ci.HabitID == habitID && ci.CheckInDate == day {
			return ci, nil
		}
	}
	return models.DailyCheckIn{}, storage.ErrNotFound
}

func (s *Store) GetCheckInsForHabit(habitID string) ([]models.DailyCheckIn, error) {
	var checkIns []models.DailyCheckIn
	for _, ci := range s.checkIns {
		if ci.HabitID == habitID {
			checkIns = append(checkIns, ci)
		}
	}
	return checkIns, nil
}

func (s *Store) GetCheckInsForDay(userID, day string) ([]models.DailyCheckIn, error) {
	habitIDs := make(map[string]bool)
	for _, h := range s.habits {
		if h.UserID == userID {
			habitIDs[h.ID] = true
		}
	}

	var checkIns []models.DailyCheckIn
	for _, ci := range s.checkIns {
		if ci.CheckInDate == day && habitIDs[ci.HabitID] {
			checkIns = append(checkIns, ci)
		}
	}
	return checkIns, nil
}

// Qualities

func (s *Store) AddQuality(quality models.Quality) error {
	s.qualities = append(s.qualities, quality)
	return nil
}

func (s *Store) GetQuality(userID, id string) (models.Quality, error) {
	for _, q := range s.qualities {
		if q.ID == id && q.UserID == userID {
			return q, nil
		}
	}
	return models.Quality{}, storage.ErrNotFound
}

func (s *Store) GetQualityByName(userID, name string) (models.Quality, error) {
	for _, q := range s.qualities {
		if q.QualityName == name && q.UserID == userID {
			return q, nil
		}
	}
	return models.Quality{}, storage.ErrNotFound
}

func (s *Store) GetAllQualities(userID string) ([]models.Quality, error) {
	var qualities []models.Quality
	for _, q := range s.qualities {
		if q.UserID == userID {
			qualities = append(qualities, q)
		}
	}
	return qualities, nil
}

func (s *Store) UpdateQuality(quality models.Quality) error {
	for i, q := range s.qualities {
		if q.ID == quality.ID && q.UserID == quality.UserID {
			s.qualities[i] = quality
			return nil
		}
	}
	return storage.ErrNotFound
}

// Identity statements

func (s *Store) AddStatement(statement models.Statement) error {
	s.statements = append(s.statements, statement)
	return nil
}

func (s *Store) GetStatement(userID, id string) (models.Statement, error) {
	for _, st := range s.statements {
		if st.ID == id && st.UserID == userID {
			return st, nil
		}
	}
	return models.Statement{}, storage.ErrNotFound
}

func (s *Store) GetAllStatements(userID string) ([]models.Statement, error) {
	var statements []models.Statement
	for _, st := range s.statements {
		if st.UserID == userID {
			statements = append(statements, st)
		}
	}
	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].Order < statements[j].Order
	})
	return statements, nil
}

func (s *Store) UpdateStatement(statement models.Statement) error {
	for i, st := range s.statements {
		if st.ID == statement.ID && st.UserID == statement.UserID {
			s.statements[i] = statement
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) DeleteStatement(userID, id string) error {
	for i, st := range s.statements {
		if st.ID == id && st.UserID == userID {
			s.statements = append(s.statements[:i], s.statements[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// Evidence

func (s *Store) AddEvidence(evidence models.Evidence) error {
	s.evidence = append(s.evidence, evidence)
	return nil
}

func (s *Store) GetEvidence(userID, qualityID string, limit int) ([]models.Evidence, error) {
	var records []models.Evidence
	// Newest first; the slice is in insertion order so walk backwards.
	for i := len(s.evidence) - 1; i >= 0; i-- {
		ev := s.evidence[i]
		if ev.UserID != userID {
			continue
		}
		if qualityID != "" && ev.QualityID != qualityID {
			continue
		}
		records = append(records, ev)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

func (s *Store) CountEvidenceSince(qualityID string, since time.Time) (int, error) {
	count := 0
	for _, ev := range s.evidence {
		if ev.QualityID == qualityID && !ev.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// Challenges

func (s *Store) AddChallenge(challenge models.Challenge) error {
	s.challenges = append(s.challenges, challenge)
	return nil
}

func (s *Store) GetChallenge(userID, id string) (models.Challenge, error) {
	for _, c := range s.challenges {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return models.Challenge{}, storage.ErrNotFound
}

func (s *Store) GetAllChallenges(userID string, status constants.ChallengeStatus) ([]models.Challenge, error) {
	var challenges []models.Challenge
	for _, c := range s.challenges {
		if c.UserID != userID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (s *Store) GetActiveChallengeForQuality(userID, qualityID string) (models.Challenge, error) {
	for _, c := range s.challenges {
		if c.UserID == userID && c.QualityTargetID == qualityID && c.Status == constants.ChallengeActive {
			return c, nil
		}
	}
	return models.Challenge{}, storage.ErrNotFound
}

func (s *Store) UpdateChallenge(challenge models.Challenge) error {
	for i, c := range s.challenges {
		if c.ID == challenge.ID && c.UserID == challenge.UserID {
			s.challenges[i] = challenge
			return nil
		}
	}
	return storage.ErrNotFound
}

// Milestones

func (s *Store) AddMilestone(milestone models.Milestone) error {
	s.milestones = append(s.milestones, milestone)
	return nil
}

func (s *Store) GetAllMilestones(userID string) ([]models.Milestone, error) {
	var milestones []models.Milestone
	for _, m := range s.milestones {
		if m.UserID == userID {
			milestones = append(milestones, m)
		}
	}
	return milestones, nil
}

// Insights

func (s *Store) AddInsight(insight models.Insight) error {
	s.insights = append(s.insights, insight)
	return nil
}

func (s *Store) GetAllInsights(userID string, unreadOnly bool) ([]models.Insight, error) {
	var insights []models.Insight
	for i := len(s.insights) - 1; i >= 0; i-- {
		in := s.insights[i]
		if in.UserID != userID {
			continue
		}
		if unreadOnly && in.IsRead {
			continue
		}
		insights = append(insights, in)
	}
	return insights, nil
}

func (s *Store) HasInsightFingerprint(userID string, fingerprint uint64) (bool, error) {
	for _, in := range s.insights {
		if in.UserID == userID && in.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MarkInsightRead(userID, id string) error {
	for i, in := range s.insights {
		if in.ID == id && in.UserID == userID {
			s.insights[i].IsRead = true
			return nil
		}
	}
	return storage.ErrNotFound
}
