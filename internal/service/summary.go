// summary.go — генерация сводного PNG-изображения: число стран,
// время последнего refresh и топ-5 по оценке ВВП.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
)

// Параметры макета изображения.
const (
	SummaryWidth  = 800
	SummaryHeight = 600

	summaryFileName = "summary.png"
	summaryCacheKey = "summary"
	summaryTopLimit = 5

	lastRefreshLayout = "1/2/2006, 3:04:05 PM"
)

var (
	summaryBackground = color.RGBA{R: 0xf8, G: 0xf9, B: 0xfa, A: 0xff}
	summaryText       = color.RGBA{R: 0x34, G: 0x3a, B: 0x40, A: 0xff}
)

var summaryGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cs_summary_generated_total",
		Help: "Количество генераций сводного изображения.",
	},
	[]string{"status"},
)

// summaryFaces — начертания шрифтов макета.
type summaryFaces struct {
	title  font.Face
	header font.Face
	body   font.Face
	item   font.Face
}

var (
	facesOnce sync.Once
	faces     *summaryFaces
	facesErr  error

	// renderMu — font.Face из opentype не потокобезопасен.
	renderMu sync.Mutex
)

// loadFaces один раз разбирает встроенные Go-шрифты.
func loadFaces() (*summaryFaces, error) {
	facesOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("разбор шрифта regular: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("разбор шрифта bold: %w", err)
			return
		}

		var loaded summaryFaces
		for _, opt := range []struct {
			dst  *font.Face
			font *opentype.Font
			size float64
		}{
			{&loaded.title, bold, 32},
			{&loaded.header, bold, 24},
			{&loaded.body, regular, 20},
			{&loaded.item, regular, 18},
		} {
			face, err := opentype.NewFace(opt.font, &opentype.FaceOptions{
				Size:    opt.size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err != nil {
				facesErr = fmt.Errorf("создание начертания %.0fpx: %w", opt.size, err)
				return
			}
			*opt.dst = face
		}
		faces = &loaded
	})
	return faces, facesErr
}

// SummaryRepository — часть CountryRepository, нужная для сводки.
type SummaryRepository interface {
	Count(ctx context.Context) (int, error)
	TopByEstimatedGDP(ctx context.Context, limit int) ([]*model.Country, error)
}

// SummaryService — генерация и выдача сводного изображения.
type SummaryService struct {
	repo   SummaryRepository
	dir    string
	cache  *ImageCache
	now    func() time.Time
	logger *slog.Logger
}

// NewSummaryService создаёт сервис сводки.
// dir — каталог, в котором хранится summary.png.
func NewSummaryService(repo SummaryRepository, dir string, cache *ImageCache, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		repo:   repo,
		dir:    dir,
		cache:  cache,
		now:    time.Now,
		logger: logger.With(slog.String("component", "summary_service")),
	}
}

// Path возвращает путь к файлу изображения.
func (s *SummaryService) Path() string {
	return filepath.Join(s.dir, summaryFileName)
}

// Generate перерисовывает изображение по текущему содержимому хранилища
// и целиком заменяет файл на диске.
func (s *SummaryService) Generate(ctx context.Context) error {
	data, err := s.render(ctx)
	if err != nil {
		summaryGeneratedTotal.WithLabelValues("error").Inc()
		return err
	}

	// Содержимое файла после неудачной записи не определено, копия в памяти сбрасывается
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.cache.Delete(summaryCacheKey)
		summaryGeneratedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("создание каталога %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil { //nolint:gosec // G306: изображение публичное
		s.cache.Delete(summaryCacheKey)
		summaryGeneratedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("запись %s: %w", s.Path(), err)
	}

	s.cache.Set(summaryCacheKey, data)
	summaryGeneratedTotal.WithLabelValues("success").Inc()

	s.logger.Info("Сводное изображение обновлено",
		slog.String("path", s.Path()),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Image возвращает байты последнего сгенерированного изображения.
// ErrImageNotFound — изображение ещё ни разу не генерировалось.
func (s *SummaryService) Image(_ context.Context) ([]byte, error) {
	if data, ok := s.cache.Get(summaryCacheKey); ok {
		return data, nil
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("чтение %s: %w", s.Path(), err)
	}

	s.cache.Set(summaryCacheKey, data)
	return data, nil
}

// render рисует макет и кодирует его в PNG.
func (s *SummaryService) render(ctx context.Context) ([]byte, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт стран: %w", err)
	}
	top, err := s.repo.TopByEstimatedGDP(ctx, summaryTopLimit)
	if err != nil {
		return nil, fmt.Errorf("выборка топа по ВВП: %w", err)
	}
	ff, err := loadFaces()
	if err != nil {
		return nil, err
	}

	renderMu.Lock()
	defer renderMu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, SummaryWidth, SummaryHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(summaryBackground), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(summaryText)}

	title := "Countries Summary"
	d.Face = ff.title
	d.Dot = fixed.Point26_6{X: fixed.I(SummaryWidth/2) - d.MeasureString(title)/2, Y: fixed.I(60)}
	d.DrawString(title)

	drawText(d, ff.body, 50, 120, fmt.Sprintf("Total Countries: %d", total))
	drawText(d, ff.body, 50, 150, lastRefreshLine(s.now()))
	drawText(d, ff.header, 50, 200, "Top 5 Countries by Estimated GDP:")

	for i, c := range top {
		drawText(d, ff.item, 70, 240+30*i, topLine(i+1, c))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("кодирование PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// lastRefreshLine — строка с моментом генерации изображения (UTC).
func lastRefreshLine(t time.Time) string {
	return "Last Refresh: " + t.UTC().Format(lastRefreshLayout)
}

func drawText(d *font.Drawer, face font.Face, x, y int, s string) {
	d.Face = face
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// topLine форматирует строку рейтинга: "1. Name: $1,234.56" или "1. Name: N/A".
func topLine(rank int, c *model.Country) string {
	if !c.EstimatedGDP.Valid {
		return fmt.Sprintf("%d. %s: N/A", rank, c.Name)
	}
	p := message.NewPrinter(language.English)
	return fmt.Sprintf("%d. %s: $%s", rank, c.Name, p.Sprintf("%.2f", c.EstimatedGDP.Decimal.InexactFloat64()))
}

var _ SummaryRepository = (repository.CountryRepository)(nil)
