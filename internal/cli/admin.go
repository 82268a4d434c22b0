package cli

import (
	"errors"
	"fmt"

	"servis-backend/internal/auth"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

// CreateAdminCmd sistemde hiç kullanıcı yokken ilk admin'i oluşturur.
func CreateAdminCmd() *cobra.Command {
	var req auth.InitFirstUserRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "İlk admin kullanıcısını oluştur",
		Long: `Sistemde hiç kullanıcı yoksa verilen bilgilerle admin oluşturur.
Kullanıcı varsa komut hata verir; yeni kullanıcılar API üzerinden eklenir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Username == "" || req.Password == "" {
				return errors.New("--username ve --password zorunlu")
			}
			if len(req.Password) < 6 {
				return errors.New("şifre en az 6 karakter olmalı")
			}
			if req.Firstname == "" {
				req.Firstname = req.Username
			}
			if _, _, err := openDB(); err != nil {
				return err
			}

			user, err := auth.CreateFirstAdmin(req)
			if err != nil {
				var fe *fiber.Error
				if errors.As(err, &fe) {
					return errors.New(fe.Message)
				}
				return err
			}
			fmt.Printf("%s admin oluşturuldu: %s (id %d)\n", color.New(color.FgGreen).Sprint("✓"), user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "kullanıcı adı")
	cmd.Flags().StringVar(&req.Password, "password", "", "şifre")
	cmd.Flags().StringVar(&req.Firstname, "firstname", "", "ad")
	cmd.Flags().StringVar(&req.Email, "email", "", "e-posta")
	return cmd
}
