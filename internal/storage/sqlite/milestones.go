package sqlite

import (
	"github.com/becominglabs/becoming/internal/models"
)

const milestoneColumns = `id, user_id, quality_id, title, description, milestone_type,
	achievement_data, xp_reward, created_at`

func (s *Store) AddMilestone(milestone models.Milestone) error {
	achievementData, err := marshalJSON(milestone.AchievementData)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO milestones (`+milestoneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		milestone.ID, milestone.UserID, milestone.QualityID, milestone.Title,
		milestone.Description, milestone.MilestoneType, achievementData,
		milestone.XPReward, formatTime(milestone.CreatedAt))
	return err
}

func (s *Store) GetAllMilestones(userID string) ([]models.Milestone, error) {
	rows, err := s.db.Query(`SELECT `+milestoneColumns+` FROM milestones WHERE user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		var achievementData, createdAt string

		err := rows.Scan(&m.ID, &m.UserID, &m.QualityID, &m.Title, &m.Description,
			&m.MilestoneType, &achievementData, &m.XPReward, &createdAt)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSON("achievement_data", achievementData, &m.AchievementData); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}

		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}
