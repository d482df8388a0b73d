package chatRepository

const (
	queryCreateCommand = `
		INSERT INTO command_history (
			id, user_id, command, skill, response, created_at
		) VALUES (
			:id, :user_id, :command, :skill, :response, :created_at
		)
	`

	queryGetCommandsByUserID = `
		SELECT
			id, user_id, command, skill, response, created_at
		FROM command_history
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandsByUserID = `
		SELECT COUNT(*)
		FROM command_history
		WHERE user_id = :user_id
	`
)
