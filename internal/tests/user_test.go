package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fleet/internal/auth"
	"fleet/internal/domain"
	"fleet/internal/service"
)

func TestCreateUser_LicenseConflict(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, service.UserInput{
		FullName:      ptr("First Driver"),
		Email:         ptr("first@fleet.test"),
		Password:      ptr("password-1"),
		LicenseNumber: ptr("LIC-001"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.users.Create(ctx, service.UserInput{
		FullName:      ptr("Second Driver"),
		Email:         ptr("second@fleet.test"),
		Password:      ptr("password-2"),
		LicenseNumber: ptr(" LIC-001 "),
	})
	if !errors.Is(err, service.ErrLicenseTaken) {
		t.Fatalf("expected ErrLicenseTaken, got %v", err)
	}
	if !errors.Is(err, service.ErrConflict) {
		t.Error("expected a conflict error")
	}
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	ctx := context.Background()

	user, err := f.users.Create(ctx, service.UserInput{
		FullName: ptr("Driver"),
		Email:    ptr("driver@fleet.test"),
		Password: ptr("old-password"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.users.Update(ctx, user.ID, service.UserInput{
		Password: ptr("new-password"),
		Phone:    ptr("0611223344"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !auth.CheckPassword("new-password", updated.PasswordHash) {
		t.Error("expected the new password to match")
	}
	if updated.Phone != "0611223344" || updated.FullName != "Driver" {
		t.Errorf("expected a partial update, got %+v", updated)
	}

	if _, err := f.users.Update(ctx, "missing", service.UserInput{}); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUser_IsSoft(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addDriver("driver-1")
	f.addDriver("driver-2")
	ctx := context.Background()

	deleted, err := f.users.Delete(ctx, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted.IsDeleted {
		t.Error("expected the returned user to be flagged deleted")
	}
	if f.repos.Users.GetUser("driver-1") == nil {
		t.Error("expected the record to be kept")
	}

	if _, err := f.users.GetByID(ctx, "driver-1"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	if _, err := f.users.Delete(ctx, "driver-1"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected a second delete to fail, got %v", err)
	}

	drivers, err := f.users.GetDrivers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 1 || drivers[0].ID != "driver-2" {
		t.Errorf("expected only driver-2 to be listed, got %d drivers", len(drivers))
	}
}

func TestUploadProfileImage(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addDriver("driver-1")

	user, err := f.users.UploadProfileImage(context.Background(), "driver-1", "Me.PNG", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := f.uploader.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(keys))
	}
	if !strings.HasPrefix(keys[0], "users/driver-1/") || !strings.HasSuffix(keys[0], ".png") {
		t.Errorf("unexpected object key %q", keys[0])
	}
	if user.ProfileImage != "https://cdn.example.com/"+keys[0] {
		t.Errorf("unexpected profile image %q", user.ProfileImage)
	}
	if f.repos.Users.GetUser("driver-1").ProfileImage != user.ProfileImage {
		t.Error("expected the URL to be stored")
	}
}

func TestUploadProfileImage_Failures(t *testing.T) {
	t.Parallel()

	t.Run("storage disabled", func(t *testing.T) {
		t.Parallel()

		repos := NewMockRepositories()
		users := service.NewUserService(repos.Users, nil)

		_, err := users.UploadProfileImage(context.Background(), "driver-1", "me.jpg", "image/jpeg", strings.NewReader("x"))
		if !errors.Is(err, service.ErrStorageDisabled) {
			t.Fatalf("expected ErrStorageDisabled, got %v", err)
		}
	})

	t.Run("upload error", func(t *testing.T) {
		t.Parallel()

		f := newFleet(t)
		f.addDriver("driver-1")
		f.uploader.UploadError = ErrMockFailure

		_, err := f.users.UploadProfileImage(context.Background(), "driver-1", "me.jpg", "image/jpeg", strings.NewReader("x"))
		if !errors.Is(err, ErrMockFailure) {
			t.Fatalf("expected the upload error, got %v", err)
		}
		if f.repos.Users.GetUser("driver-1").ProfileImage != "" {
			t.Error("expected no URL to be stored")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		f := newFleet(t)

		_, err := f.users.UploadProfileImage(context.Background(), "missing", "me.jpg", "image/jpeg", strings.NewReader("x"))
		if !errors.Is(err, service.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestEnsureAdmin_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := f.users.EnsureAdmin(ctx, "Admin@Fleet.Test", "admin-password", "Fleet Admin"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}

	admins, err := f.users.GetAll(ctx, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
	if admins[0].Email != "admin@fleet.test" {
		t.Errorf("expected normalized email, got %q", admins[0].Email)
	}

	if _, err := f.auth.Login(ctx, "admin@fleet.test", "admin-password"); err != nil {
		t.Errorf("expected the admin to be able to log in: %v", err)
	}
}
