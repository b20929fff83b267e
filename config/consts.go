package config

// Validation and pagination constants shared by services and controllers.
const (
	MinCookingTime = 1
	MinAmount      = 1

	MaxRecipeName      = 256
	MaxIngredientName  = 128
	MaxMeasurementName = 64
	MaxTagName         = 32
	MaxUserName        = 150

	PageSize    = 6
	MaxPageSize = 100
)
