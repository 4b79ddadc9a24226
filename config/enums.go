package config

//go:generate go tool go-enum --marshal --names --mustparse --nocase

// How new footnote identities are generated.
// ENUM(uuid, sequential)
type IDScheme int
