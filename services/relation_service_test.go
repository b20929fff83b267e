package services

import (
	"errors"
	"testing"

	"github.com/MirOrlov/foodgram/models"
)

func TestAddFavoriteDuplicate(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	tag := seedTag(t, db, "dinner")
	salt := seedIngredient(t, db, "соль", "г")
	recipe := seedRecipe(t, db, author, "Хлеб", tag,
		IngredientLineRequest{IngredientID: salt.ID, Amount: 1})

	svc := NewRelationService(db)
	if _, err := svc.AddFavorite(fan.ID, recipe.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := svc.AddFavorite(fan.ID, recipe.ID)
	var dup *DuplicateRelationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRelationError, got %v", err)
	}
	if dup.Kind != models.KindFavorite {
		t.Errorf("wrong kind: %s", dup.Kind)
	}

	var count int64
	db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one favorite row, got %d", count)
	}
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	db := newTestDB(t)
	fan := seedUser(t, db, "fan")

	if _, err := NewRelationService(db).AddFavorite(fan.ID, 999); err == nil {
		t.Fatalf("expected error for unknown recipe")
	}
}

func TestRemoveFavoriteNotFound(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	tag := seedTag(t, db, "dinner")
	salt := seedIngredient(t, db, "соль", "г")
	recipe := seedRecipe(t, db, author, "Хлеб", tag,
		IngredientLineRequest{IngredientID: salt.ID, Amount: 1})

	err := NewRelationService(db).RemoveFavorite(fan.ID, recipe.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != models.KindFavorite {
		t.Errorf("wrong kind: %s", nf.Kind)
	}
}

func TestCartAddRemove(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	tag := seedTag(t, db, "dinner")
	salt := seedIngredient(t, db, "соль", "г")
	recipe := seedRecipe(t, db, author, "Хлеб", tag,
		IngredientLineRequest{IngredientID: salt.ID, Amount: 1})

	svc := NewRelationService(db)
	got, err := svc.AddToCart(fan.ID, recipe.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID != recipe.ID {
		t.Errorf("expected recipe %d back, got %d", recipe.ID, got.ID)
	}

	if err := svc.RemoveFromCart(fan.ID, recipe.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// removing again is a not-found, and the pair can be re-added
	var nf *NotFoundError
	if err := svc.RemoveFromCart(fan.ID, recipe.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := svc.AddToCart(fan.ID, recipe.ID); err != nil {
		t.Fatalf("re-add after remove: %v", err)
	}
}

func TestSubscribeSelf(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "chef")

	_, err := NewRelationService(db).Subscribe(user.ID, user.ID)
	var self *SelfRelationError
	if !errors.As(err, &self) {
		t.Fatalf("expected SelfRelationError, got %v", err)
	}

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Fatalf("self-subscription must not be written")
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	db := newTestDB(t)
	follower := seedUser(t, db, "fan")
	author := seedUser(t, db, "chef")

	svc := NewRelationService(db)
	if _, err := svc.Subscribe(follower.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_, err := svc.Subscribe(follower.ID, author.ID)
	var dup *DuplicateRelationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRelationError, got %v", err)
	}
	if dup.Kind != models.KindSubscription {
		t.Errorf("wrong kind: %s", dup.Kind)
	}
}

func TestUnsubscribeNotFound(t *testing.T) {
	db := newTestDB(t)
	follower := seedUser(t, db, "fan")
	author := seedUser(t, db, "chef")

	err := NewRelationService(db).Unsubscribe(follower.ID, author.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListSubscriptionsRecipesLimit(t *testing.T) {
	db := newTestDB(t)
	follower := seedUser(t, db, "fan")
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "dinner")
	salt := seedIngredient(t, db, "соль", "г")

	for _, name := range []string{"Первый", "Второй", "Третий"} {
		seedRecipe(t, db, author, name, tag,
			IngredientLineRequest{IngredientID: salt.ID, Amount: 1})
	}

	svc := NewRelationService(db)
	if _, err := svc.Subscribe(follower.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// unbounded
	subs, count, err := svc.ListSubscriptions(follower.ID, nil, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != 1 || len(subs) != 1 {
		t.Fatalf("expected one followee, got count=%d len=%d", count, len(subs))
	}
	if len(subs[0].Recipes) != 3 || subs[0].RecipesCount != 3 {
		t.Errorf("unbounded preview wrong: %d recipes, count %d", len(subs[0].Recipes), subs[0].RecipesCount)
	}

	// bounded
	subs, _, err = svc.ListSubscriptions(follower.ID, intPtr(2), 10, 0)
	if err != nil {
		t.Fatalf("list limit=2: %v", err)
	}
	if len(subs[0].Recipes) != 2 || subs[0].RecipesCount != 3 {
		t.Errorf("bounded preview wrong: %d recipes, count %d", len(subs[0].Recipes), subs[0].RecipesCount)
	}

	// zero or negative yields an empty preview
	for _, limit := range []int{0, -1} {
		subs, _, err = svc.ListSubscriptions(follower.ID, intPtr(limit), 10, 0)
		if err != nil {
			t.Fatalf("list limit=%d: %v", limit, err)
		}
		if len(subs[0].Recipes) != 0 {
			t.Errorf("limit=%d: expected empty preview, got %d", limit, len(subs[0].Recipes))
		}
	}
}

func TestSerializeUserIsSubscribed(t *testing.T) {
	db := newTestDB(t)
	follower := seedUser(t, db, "fan")
	author := seedUser(t, db, "chef")

	svc := NewRelationService(db)
	if _, err := svc.Subscribe(follower.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if resp, err := svc.SerializeUser(author, follower.ID); err != nil || !resp.IsSubscribed {
		t.Errorf("expected is_subscribed=true, err=%v", err)
	}
	if resp, err := svc.SerializeUser(follower, author.ID); err != nil || resp.IsSubscribed {
		t.Errorf("expected is_subscribed=false for the reverse direction, err=%v", err)
	}
	if resp, err := svc.SerializeUser(author, 0); err != nil || resp.IsSubscribed {
		t.Errorf("expected is_subscribed=false for anonymous viewer, err=%v", err)
	}
}

func TestSerializeUserSubscriptionLookupFault(t *testing.T) {
	db := newTestDB(t)
	follower := seedUser(t, db, "fan")
	author := seedUser(t, db, "chef")

	if err := db.Migrator().DropTable(&models.Subscription{}); err != nil {
		t.Fatalf("drop subscriptions: %v", err)
	}

	svc := NewRelationService(db)
	if _, err := svc.SerializeUser(author, follower.ID); err == nil {
		t.Fatalf("expected an error when the subscription lookup fails")
	}
}
