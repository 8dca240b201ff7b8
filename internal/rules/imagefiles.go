package rules

import (
	"context"
	"os"
	"path"
	"slices"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/model"
)

// exifConcurrency bounds how many image files are read at once.
const exifConcurrency = 8

// exifExtensions are the formats that carry EXIF blocks.
var exifExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".tif":  {},
	".tiff": {},
}

// gpsTags reveal where a photo was taken.
var gpsTags = map[string]struct{}{
	"GPSLatitude":     {},
	"GPSLongitude":    {},
	"GPSLatitudeRef":  {},
	"GPSLongitudeRef": {},
	"GPSAltitude":     {},
}

// identifyingTags reveal the device, software or author.
var identifyingTags = map[string]struct{}{
	"Make":               {},
	"Model":              {},
	"SerialNumber":       {},
	"CameraSerialNumber": {},
	"BodySerialNumber":   {},
	"LensSerialNumber":   {},
	"Software":           {},
	"ProcessingSoftware": {},
	"Artist":             {},
	"Author":             {},
	"Copyright":          {},
	"XPAuthor":           {},
	"DateTimeOriginal":   {},
}

// CheckImageFiles reports image references without a file and image files
// that are too large.
func CheckImageFiles(ctx context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	var issues []model.Issue
	referenced := make(map[string]struct{})

	for _, page := range site.SortedPages() {
		if ctx.Err() != nil {
			return issues
		}
		for _, img := range page.Images {
			if !isLocalReference(env, img.Src) {
				continue
			}
			p, _, ok := targetPath(page.RelativePath, img.Src)
			if !ok {
				continue
			}
			if site.HasFile(p) {
				referenced[p] = struct{}{}
				continue
			}
			issues = append(issues, pageIssue(page, "images/file-missing",
				model.WithElement(imageElement(img)),
				model.WithLine(img.Line),
				model.WithValues(p, "an existing file")))
		}
	}

	for _, rel := range sortedImageKeys(site) {
		img := site.Images[rel]
		if _, ok := referenced[rel]; !ok || img.Size <= MaxImageBytes {
			continue
		}
		issues = append(issues, model.NewIssue("images/oversized", img.AbsolutePath, rel,
			model.WithValues(humanize.IBytes(uint64(img.Size)), "at most "+humanize.IBytes(MaxImageBytes))))
	}
	return issues
}

// CheckEXIF reports JPEG and TIFF files in the output tree that still carry
// GPS or identifying EXIF metadata.
func CheckEXIF(ctx context.Context, _ *Env, site *model.SiteIndex) []model.Issue {
	var candidates []string
	for _, rel := range sortedImageKeys(site) {
		if _, ok := exifExtensions[strings.ToLower(path.Ext(rel))]; ok {
			candidates = append(candidates, rel)
		}
	}

	results := make([][]model.Issue, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exifConcurrency)
	for i, rel := range candidates {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = exifIssues(rel, site.Images[rel])
			return nil
		})
	}
	_ = g.Wait()

	var issues []model.Issue
	for _, list := range results {
		issues = append(issues, list...)
	}
	return issues
}

func exifIssues(rel string, img model.ImageFile) []model.Issue {
	data, err := os.ReadFile(img.AbsolutePath)
	if err != nil {
		return nil
	}

	gps, identifying := ExtractEXIFTags(data)

	var issues []model.Issue
	if len(gps) > 0 {
		issues = append(issues, model.NewIssue("images/exif-gps", img.AbsolutePath, rel,
			model.WithElement(strings.Join(gps, ", "))))
	}
	if len(identifying) > 0 {
		issues = append(issues, model.NewIssue("images/exif-metadata", img.AbsolutePath, rel,
			model.WithElement(strings.Join(identifying, ", "))))
	}
	return issues
}

// ExtractEXIFTags returns the sorted names of GPS and identifying tags
// found in an image. Images without EXIF data yield nothing.
func ExtractEXIFTags(data []byte) (gps, identifying []string) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil, nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, nil
	}

	for _, entry := range entries {
		if _, ok := gpsTags[entry.TagName]; ok && !slices.Contains(gps, entry.TagName) {
			gps = append(gps, entry.TagName)
		}
		if _, ok := identifyingTags[entry.TagName]; ok && !slices.Contains(identifying, entry.TagName) {
			identifying = append(identifying, entry.TagName)
		}
	}
	slices.Sort(gps)
	slices.Sort(identifying)
	return gps, identifying
}

func sortedImageKeys(site *model.SiteIndex) []string {
	keys := make([]string, 0, len(site.Images))
	for k := range site.Images {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
