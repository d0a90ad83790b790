package i18n

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
)

// setupTestLocales cria arquivos de locale temporários para testes
func setupTestLocales(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	enContent := `{
  "welcome": "Welcome, {{.Name}}!",
  "code_sent": "Code sent",
  "error.user_not_found": "User does not exist"
}`
	if err := os.WriteFile(filepath.Join(tmpDir, "en.json"), []byte(enContent), 0644); err != nil { //nolint:gosec
		t.Fatalf("failed to create en.json: %v", err)
	}

	uzContent := `{
  "welcome": "Xush kelibsiz, {{.Name}}!",
  "code_sent": "Kod yuborildi"
}`
	if err := os.WriteFile(filepath.Join(tmpDir, "uz.json"), []byte(uzContent), 0644); err != nil { //nolint:gosec
		t.Fatalf("failed to create uz.json: %v", err)
	}

	return tmpDir
}

func TestNewService(t *testing.T) {
	t.Run("carrega traduções com sucesso", func(t *testing.T) {
		service, err := NewService(setupTestLocales(t), "en")
		if err != nil {
			t.Fatalf("esperava sucesso, obteve erro: %v", err)
		}

		if service.GetDefaultLanguage() != "en" {
			t.Errorf("esperava idioma padrão 'en', obteve '%s'", service.GetDefaultLanguage())
		}

		langs := service.GetSupportedLanguages()
		if len(langs) != 2 || langs[0] != "en" || langs[1] != "uz" {
			t.Errorf("esperava [en uz], obteve %v", langs)
		}
	})

	t.Run("erro quando diretório não existe", func(t *testing.T) {
		if _, err := NewService("/diretorio/inexistente", "en"); err == nil {
			t.Error("esperava erro, obteve sucesso")
		}
	})

	t.Run("erro quando idioma padrão não existe", func(t *testing.T) {
		if _, err := NewService(setupTestLocales(t), "fr"); err == nil {
			t.Error("esperava erro para idioma padrão inexistente, obteve sucesso")
		}
	})

	t.Run("erro com JSON inválido", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/en.json": {Data: []byte(`{"a": `)},
		}
		if _, err := NewServiceFS(fsys, "locales", "en"); err == nil {
			t.Error("esperava erro de parse, obteve sucesso")
		}
	})
}

func TestService_T(t *testing.T) {
	service, err := NewService(setupTestLocales(t), "en")
	if err != nil {
		t.Fatalf("falha ao inicializar serviço: %v", err)
	}

	tests := []struct {
		name     string
		lang     string
		key      string
		params   []map[string]any
		expected string
	}{
		{"mensagem simples em inglês", "en", "code_sent", nil, "Code sent"},
		{"mensagem simples em uzbeque", "uz", "code_sent", nil, "Kod yuborildi"},
		{"mensagem com parâmetros", "en", "welcome", []map[string]any{{"Name": "Ali"}}, "Welcome, Ali!"},
		{"parâmetros em uzbeque", "uz", "welcome", []map[string]any{{"Name": "Ali"}}, "Xush kelibsiz, Ali!"},
		{"fallback quando o idioma não existe", "fr", "code_sent", nil, "Code sent"},
		{"fallback quando a chave falta no idioma", "uz", "error.user_not_found", nil, "User does not exist"},
		{"retorna a chave quando não há tradução", "en", "chave.inexistente", nil, "chave.inexistente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := service.T(tt.lang, tt.key, tt.params...); got != tt.expected {
				t.Errorf("esperava '%s', obteve '%s'", tt.expected, got)
			}
		})
	}
}

func TestService_IsLanguageSupported(t *testing.T) {
	service, err := NewService(setupTestLocales(t), "en")
	if err != nil {
		t.Fatalf("falha ao inicializar serviço: %v", err)
	}

	tests := []struct {
		lang     string
		expected bool
	}{
		{"en", true},
		{"uz", true},
		{"ru", false},
		{"pt-BR", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := service.IsLanguageSupported(tt.lang); got != tt.expected {
				t.Errorf("para idioma '%s', esperava %v, obteve %v", tt.lang, tt.expected, got)
			}
		})
	}
}

func TestEmbeddedLocales(t *testing.T) {
	service, err := NewEmbeddedService("en")
	if err != nil {
		t.Fatalf("falha ao carregar locales embutidos: %v", err)
	}

	if !service.IsLanguageSupported("uz") {
		t.Fatal("esperava locale uz embutido")
	}

	if missing := service.MissingKeys("uz"); len(missing) > 0 {
		t.Errorf("chaves sem tradução em uz: %v", missing)
	}

	if got := service.T("uz", "error.code_already_pending"); got != "Kod yuborilgan, biroz kuting" {
		t.Errorf("tradução inesperada: %s", got)
	}
}

func TestService_ThreadSafety(t *testing.T) {
	service, err := NewService(setupTestLocales(t), "en")
	if err != nil {
		t.Fatalf("falha ao inicializar serviço: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(3)

		go func() {
			defer wg.Done()
			_ = service.T("en", "welcome", map[string]any{"Name": "Test"})
		}()

		go func() {
			defer wg.Done()
			_ = service.T("uz", "welcome", map[string]any{"Name": "Test"})
		}()

		go func() {
			defer wg.Done()
			_ = service.IsLanguageSupported("en")
		}()
	}

	wg.Wait()
}
