package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/expiry"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/storage"
)

func (a *App) List(ctx context.Context) error {
	views, err := a.svc.List(ctx)
	if err != nil {
		return err
	}

	for _, v := range views {
		marker := ""
		switch {
		case v.DaysLeft < 0:
			marker = fmt.Sprintf("  [expired %d days ago]", -v.DaysLeft)
		case v.Status == expiry.StatusExpiringSoon:
			marker = fmt.Sprintf("  [expires in %d days]", v.DaysLeft)
		}
		printlnFn(fmt.Sprintf("%s  %-16s %-24s %s  (%s)%s",
			v.ID, v.Kind, v.Title, v.ExpiryDate, v.ProfileName, marker))
	}
	if len(views) == 0 {
		printlnFn("No cards yet. Use 'add' to create one.")
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	d, err := a.svc.Get(ctx, id)
	if err != nil {
		return err
	}

	printlnFn("Title:  ", d.Title)
	printlnFn("Kind:   ", d.Kind)
	if d.Issuer != "" {
		printlnFn("Issuer: ", d.Issuer)
	}
	printlnFn("Expires:", d.ExpiryDate, "("+d.Status.String()+")")
	printlnFn("Profile:", d.ProfileName)
	if d.RenewURL != "" {
		printlnFn("Renew:  ", d.RenewURL)
	}

	switch {
	case d.NoteLocked:
		printlnFn("Notes:   <locked>")
	case d.Notes != "":
		printlnFn("Notes:  ", d.Notes)
	}

	for _, s := range d.RenewalSteps {
		mark := "[ ]"
		if s.Completed {
			mark = "[x]"
		}
		printlnFn(fmt.Sprintf("  %s %d. %s", mark, s.Order+1, s.Title))
	}
	for _, att := range d.Attachments {
		printlnFn(fmt.Sprintf("  attachment %s: %s (%s, %d bytes)",
			att.ID, att.Name, att.ContentType, len(att.Blob)))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	var in storage.UpsertCardInput

	imagePath, err := GetSimpleText(a.reader, "Image file (optional, path)", os.Stdout)
	if err != nil {
		return err
	}
	if imagePath != "" {
		blob, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		in.Attachments = []models.CardAttachment{{
			ID:          models.NewID(),
			Name:        filepath.Base(imagePath),
			ContentType: "application/octet-stream",
			Blob:        blob,
		}}
		in.ReplaceAttachments = true

		// Recognized fields are only ever suggestions; the user types (or
		// retypes) every value that gets persisted.
		if hints, err := a.extract.Extract(ctx, blob, "application/octet-stream"); err == nil {
			if hints.Title != "" {
				printlnFn("Detected title: ", hints.Title)
			}
			if hints.Issuer != "" {
				printlnFn("Detected issuer:", hints.Issuer)
			}
			if hints.ExpiryDate != "" {
				printlnFn("Detected expiry:", hints.ExpiryDate)
			}
		}
	}

	if in.Card.Title, err = GetSimpleText(a.reader, "Card title", os.Stdout); err != nil {
		return err
	}
	if in.Card.Kind, err = GetSimpleText(a.reader, "Kind (see 'kinds')", os.Stdout); err != nil {
		return err
	}
	if in.Card.ExpiryDate, err = GetSimpleText(a.reader, "Expiry date (YYYY-MM-DD)", os.Stdout); err != nil {
		return err
	}
	if in.Card.Issuer, err = GetSimpleText(a.reader, "Issuer (optional)", os.Stdout); err != nil {
		return err
	}
	if in.Card.Notes, err = GetMultiline(a.reader, "Notes (optional)", os.Stdout); err != nil {
		return err
	}

	saved, err := a.svc.Save(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Saved card", saved.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, id)
}

func (a *App) Kinds(ctx context.Context) error {
	kinds, err := a.store.ListCardKinds(ctx)
	if err != nil {
		return err
	}
	for _, k := range kinds {
		printlnFn(k)
	}
	return nil
}

func (a *App) AddKind(ctx context.Context, name string) error {
	return a.store.CreateCardKind(ctx, name)
}

func (a *App) DeleteKind(ctx context.Context, name string) error {
	return a.store.DeleteCardKind(ctx, name)
}

func (a *App) Profiles(ctx context.Context) error {
	profiles, err := a.store.ListProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		printlnFn(p.ID, " ", p.Name)
	}
	return nil
}

func (a *App) AddProfile(ctx context.Context, name string) error {
	p, err := a.store.CreateProfile(ctx, name)
	if err != nil {
		return err
	}
	printlnFn("Created profile", p.ID)
	return nil
}

func (a *App) DeleteProfile(ctx context.Context, id string) error {
	return a.store.DeleteProfile(ctx, id)
}

// SetAvatar uploads a profile picture. Only the remote engine stores
// avatar blobs; on the local engine the profile keeps a URL instead.
func (a *App) SetAvatar(ctx context.Context, profileID, path string) error {
	avatars, ok := a.store.(storage.AvatarStore)
	if !ok {
		printlnFn("Avatar upload needs the remote backend; set an avatar URL on the profile instead.")
		return nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading avatar: %w", err)
	}
	url, err := avatars.SaveProfileAvatar(ctx, profileID, filepath.Base(path), "application/octet-stream", blob)
	if err != nil {
		return err
	}
	printlnFn("Avatar stored at", url)
	return nil
}

func (a *App) DeleteAvatar(ctx context.Context, profileID string) error {
	avatars, ok := a.store.(storage.AvatarStore)
	if !ok {
		printlnFn("Avatar upload needs the remote backend.")
		return nil
	}
	return avatars.DeleteProfileAvatar(ctx, profileID)
}

func (a *App) Providers(ctx context.Context) error {
	providers, err := a.store.ListRenewalProviders(ctx)
	if err != nil {
		return err
	}
	for _, p := range providers {
		printlnFn(p.ID, " ", p.Name, " ", p.URL)
	}
	return nil
}

func (a *App) AddProvider(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Provider name", os.Stdout)
	if err != nil {
		return err
	}
	url, err := GetSimpleText(a.reader, "Renewal URL", os.Stdout)
	if err != nil {
		return err
	}
	instructions, err := GetSimpleText(a.reader, "Search instructions (optional)", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.store.CreateRenewalProvider(ctx, name, url, instructions)
	if err != nil {
		return err
	}
	printlnFn("Created provider", p.ID)
	return nil
}

func (a *App) DeleteProvider(ctx context.Context, id string) error {
	return a.store.DeleteRenewalProvider(ctx, id)
}

func (a *App) SetPin(ctx context.Context) error {
	pin, err := GetPIN(os.Stdout, "New PIN")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	confirm, err := GetPIN(os.Stdout, "Repeat PIN")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(pin) != string(confirm) {
		printlnFn("PINs do not match")
		return nil
	}
	if err := a.lock.Setup(string(pin)); err != nil {
		return err
	}
	printlnFn("App lock enabled. Run 'unlock' to read and write protected notes.")
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	pin, err := GetPIN(os.Stdout, "PIN")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)
	return a.lock.Unlock(string(pin))
}

func (a *App) LockNow(ctx context.Context) error {
	a.lock.Lock()
	return nil
}

func (a *App) DisableLock(ctx context.Context) error {
	if err := a.lock.Disable(); err != nil {
		return err
	}
	printlnFn("App lock disabled. Notes encrypted earlier stay encrypted.")
	return nil
}

// Reset destroys the local store after an explicit confirmation. On the
// remote backend this is a no-op.
func (a *App) Reset(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "This deletes ALL local data. Type 'yes' to continue", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}
	return a.store.Reset(ctx)
}
