package database

// DataStore defines the unified interface for all data operations.
// This interface is composed of smaller, domain-specific interfaces following the
// Interface Segregation Principle. Consumers can depend on smaller interfaces
// (e.g., CardRepository, ColumnRepository) for better testability and clearer dependencies.
type DataStore interface {
	UserRepository
	ColumnRepository
	CardRepository
	TagRepository
	FollowUpRepository
	ContactRepository
	ThemeRepository
	ChatRepository
}
