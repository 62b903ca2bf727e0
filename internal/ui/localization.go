package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyAdd                = "add"
	KeyStart              = "start"
	KeyCancelAll          = "cancel_all"
	KeyClear              = "clear"
	KeyBrowse             = "browse"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyEnterURL           = "enter_url"
	KeyDestination        = "destination"
	KeyNoDestination      = "no_destination"
	KeyFormat             = "format"
	KeyVideo              = "video"
	KeyAudio              = "audio"
	KeyDownloadDirectory  = "download_directory"
	KeyMaxParallel        = "max_parallel"
	KeyMaxParallelHint    = "max_parallel_hint"
	KeyTagAudio           = "tag_audio"
	KeyEmbedCover         = "embed_cover"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeySettingsSaved      = "settings_saved"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidURL         = "invalid_url"
	KeyPlaylistFailed     = "playlist_failed"
	KeyResolving          = "resolving"
	KeyJobsAdded          = "jobs_added"
	KeyEmptyQueue         = "empty_queue"
	KeySelectDestination  = "select_destination"
	KeyDownloadsRunning   = "downloads_running"
	KeyConfirmClear       = "confirm_clear"
	KeyConfirmExit        = "confirm_exit"
	KeyAllComplete        = "all_complete"
	KeyAllCompleteMessage = "all_complete_message"
	KeyCancelling         = "cancelling"
	KeyOverallProgress    = "overall_progress"
	KeyError              = "error"
	KeyReveal             = "reveal"
	KeyOpen               = "open"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"es": "Español",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "YT Downloader Lite",
		KeyAdd:                "+",
		KeyStart:              "Start",
		KeyCancelAll:          "Cancel",
		KeyClear:              "Clear",
		KeyBrowse:             "Folder...",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyEnterURL:           "Video or playlist URL (https://youtube.com/watch?v=...)",
		KeyDestination:        "Save to",
		KeyNoDestination:      "No folder selected",
		KeyFormat:             "Format",
		KeyVideo:              "MP4",
		KeyAudio:              "MP3",
		KeyDownloadDirectory:  "Download Directory",
		KeyMaxParallel:        "Max Parallel Downloads",
		KeyMaxParallelHint:    "Takes effect after restart",
		KeyTagAudio:           "Write MP3 tags",
		KeyEmbedCover:         "Embed cover art",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeySettingsSaved:      "Settings saved",
		KeyPleaseEnterURL:     "Please enter a URL",
		KeyInvalidURL:         "Invalid URL",
		KeyPlaylistFailed:     "Could not read playlist",
		KeyResolving:          "Resolving %s...",
		KeyJobsAdded:          "%d added to the list",
		KeyEmptyQueue:         "Add at least one URL first",
		KeySelectDestination:  "Select a download folder first",
		KeyDownloadsRunning:   "Downloads in progress",
		KeyConfirmClear:       "Downloads are still running. Cancel them and clear the list?",
		KeyConfirmExit:        "Downloads are still running. Cancel them and exit?",
		KeyAllComplete:        "Done",
		KeyAllCompleteMessage: "%d of %d downloads finished",
		KeyCancelling:         "Cancelling downloads...",
		KeyOverallProgress:    "Overall %d%% · %d active · %d waiting",
		KeyError:              "Error",
		KeyReveal:             "folder",
		KeyOpen:               "open",
	}

	l.texts["es"] = map[string]string{
		KeyAppTitle:           "YT Downloader Lite",
		KeyAdd:                "+",
		KeyStart:              "Iniciar",
		KeyCancelAll:          "Cancelar",
		KeyClear:              "Limpiar",
		KeyBrowse:             "Carpeta...",
		KeySettings:           "Ajustes",
		KeyFile:               "Archivo",
		KeyLanguage:           "Idioma",
		KeyEnterURL:           "URL de video o lista (https://youtube.com/watch?v=...)",
		KeyDestination:        "Guardar en",
		KeyNoDestination:      "Ninguna carpeta seleccionada",
		KeyFormat:             "Formato",
		KeyVideo:              "MP4",
		KeyAudio:              "MP3",
		KeyDownloadDirectory:  "Carpeta de descargas",
		KeyMaxParallel:        "Descargas simultáneas",
		KeyMaxParallelHint:    "Se aplica al reiniciar",
		KeyTagAudio:           "Escribir etiquetas MP3",
		KeyEmbedCover:         "Incluir portada",
		KeySave:               "Guardar",
		KeyCancel:             "Cancelar",
		KeySettingsSaved:      "Ajustes guardados",
		KeyPleaseEnterURL:     "Introduce una URL",
		KeyInvalidURL:         "URL no válida",
		KeyPlaylistFailed:     "No se pudo leer la lista",
		KeyResolving:          "Resolviendo %s...",
		KeyJobsAdded:          "%d añadidos a la lista",
		KeyEmptyQueue:         "Añade al menos una URL",
		KeySelectDestination:  "Selecciona primero una carpeta",
		KeyDownloadsRunning:   "Descargas en curso",
		KeyConfirmClear:       "Hay descargas en curso. ¿Cancelarlas y limpiar la lista?",
		KeyConfirmExit:        "Hay descargas en curso. ¿Cancelarlas y salir?",
		KeyAllComplete:        "Listo",
		KeyAllCompleteMessage: "%d de %d descargas terminadas",
		KeyCancelling:         "Cancelando descargas...",
		KeyOverallProgress:    "Total %d%% · %d activas · %d en espera",
		KeyError:              "Error",
		KeyReveal:             "carpeta",
		KeyOpen:               "abrir",
	}
}
