package services

import (
	"testing"

	"github.com/MirOrlov/foodgram/models"
	"github.com/MirOrlov/foodgram/utils"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register(&RegisterRequest{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Иван",
		LastName:  "Иванов",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "correct horse" {
		t.Fatalf("password stored in plaintext")
	}
	if !utils.CheckPasswordHash("correct horse", user.Password) {
		t.Fatalf("stored hash does not verify")
	}

	if _, err := svc.Authenticate("chef@example.com", "correct horse"); err != nil {
		t.Errorf("authenticate: %v", err)
	}
	if _, err := svc.Authenticate("chef@example.com", "wrong"); err == nil {
		t.Errorf("expected error for wrong password")
	}
	if _, err := svc.Authenticate("nobody@example.com", "x"); err == nil {
		t.Errorf("expected error for unknown email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	req := &RegisterRequest{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Иван",
		LastName:  "Иванов",
		Password:  "password123",
	}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("register: %v", err)
	}

	dup := *req
	dup.Username = "chef2"
	if _, err := svc.Register(&dup); err == nil {
		t.Fatalf("expected unique constraint violation on email")
	}
}

func TestSetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register(&RegisterRequest{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Иван",
		LastName:  "Иванов",
		Password:  "old password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.SetPassword(user.ID, "wrong", "new password"); err == nil {
		t.Fatalf("expected error for wrong current password")
	}
	if err := svc.SetPassword(user.ID, "old password", "new password"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !utils.CheckPasswordHash("new password", stored.Password) {
		t.Errorf("new password does not verify")
	}
}

func TestAvatarLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "chef")

	svc := NewUserService(db)
	svc.uploadImage = func(base64Data, keyPrefix string) (string, error) {
		return "https://img.test/" + keyPrefix + "/a.png", nil
	}
	deleted := ""
	svc.deleteImage = func(url string) error {
		deleted = url
		return nil
	}

	url, err := svc.SetAvatar(user.ID, "data:image/png;base64,Zm9v")
	if err != nil {
		t.Fatalf("set avatar: %v", err)
	}
	if url != "https://img.test/users/avatars/a.png" {
		t.Errorf("avatar url: %q", url)
	}

	if err := svc.DeleteAvatar(user.ID); err != nil {
		t.Fatalf("delete avatar: %v", err)
	}
	if deleted != url {
		t.Errorf("blob not deleted: %q", deleted)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Avatar != "" {
		t.Errorf("avatar not cleared: %q", stored.Avatar)
	}
}
