package dto

type LeaderboardUserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LeaderboardEntryDTO struct {
	Rank           int                `json:"rank"`
	User           LeaderboardUserDTO `json:"user"`
	FlashcardScore int                `json:"flashcard_score"`
	QuizScore      int                `json:"quiz_score"`
	TotalScore     int                `json:"total_score"`
}

type LeaderboardResponseDTO struct {
	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`
}
