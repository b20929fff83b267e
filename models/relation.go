package models

import "time"

// RelationKind names the three (user, target) membership sets. Favorite and
// ShoppingCart are structurally identical but stored in distinct tables; the
// shared add/remove logic in services selects the table by kind.
type RelationKind string

const (
	KindFavorite     RelationKind = "favorite"
	KindShoppingCart RelationKind = "shopping_cart"
	KindSubscription RelationKind = "subscription"
)

// Relation rows are hard-deleted: a soft-deleted row would keep holding the
// unique index and block the pair from being re-added.
type Favorite struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
}

// Subscription: user follows subscribed_to. Self-subscription is rejected in
// the service; the check constraint backs it at the storage layer.
type Subscription struct {
	ID             uint      `gorm:"primarykey"`
	CreatedAt      time.Time
	UserID         uint `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_no_self_subscription,user_id <> subscribed_to_id"`
	SubscribedToID uint `gorm:"not null;uniqueIndex:idx_subscription_pair"`
}
