package http

import (
	"time"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	TelegramChatID *int64    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func newUserResponse(u *entities.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		TelegramChatID: u.TelegramChatID,
		CreatedAt:      u.CreatedAt,
	}
}

type deckRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"required,max=100"`
	Description    *string  `json:"description"`
	DescriptionMD  *string  `json:"description_md"`
	CoverImageURL  *string  `json:"cover_image_url" validate:"omitempty,url"`
	InstructionsMD *string  `json:"instructions_md"`
	SourceLang     *string  `json:"source_lang" validate:"omitempty,max=16"`
	TargetLang     *string  `json:"target_lang" validate:"omitempty,max=16"`
	IsPublic       bool     `json:"is_public"`
	Tags           []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

func (r deckRequest) entity() *entities.Deck {
	return &entities.Deck{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		DescriptionMD:  r.DescriptionMD,
		CoverImageURL:  r.CoverImageURL,
		InstructionsMD: r.InstructionsMD,
		SourceLang:     r.SourceLang,
		TargetLang:     r.TargetLang,
		IsPublic:       r.IsPublic,
		Tags:           r.Tags,
	}
}

type deckResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    *string  `json:"description"`
	DescriptionMD  *string  `json:"description_md"`
	CoverImageURL  *string  `json:"cover_image_url"`
	InstructionsMD *string  `json:"instructions_md"`
	SourceLang     *string  `json:"source_lang"`
	TargetLang     *string  `json:"target_lang"`
	IsPublic       bool     `json:"is_public"`
	Tags           []string `json:"tags"`
	OwnerID        *int64   `json:"owner_id"`
}

func newDeckResponse(d *entities.Deck) deckResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return deckResponse{
		ID:             d.ID,
		Name:           d.Name,
		Slug:           d.Slug,
		Description:    d.Description,
		DescriptionMD:  d.DescriptionMD,
		CoverImageURL:  d.CoverImageURL,
		InstructionsMD: d.InstructionsMD,
		SourceLang:     d.SourceLang,
		TargetLang:     d.TargetLang,
		IsPublic:       d.IsPublic,
		Tags:           tags,
		OwnerID:        d.OwnerID,
	}
}

type mediaRequest struct {
	FileName    string         `json:"file_name" validate:"required,max=255"`
	URL         string         `json:"url" validate:"required,url"`
	MediaType   string         `json:"media_type" validate:"required,oneof=image audio"`
	Attribution *string        `json:"attribution"`
	License     *string        `json:"license"`
	Metadata    map[string]any `json:"metadata"`
}

type mediaResponse struct {
	ID          int64          `json:"id"`
	DeckID      int64          `json:"deck_id"`
	FileName    string         `json:"file_name"`
	URL         string         `json:"url"`
	MediaType   string         `json:"media_type"`
	Attribution *string        `json:"attribution"`
	License     *string        `json:"license"`
	Metadata    map[string]any `json:"metadata"`
}

func newMediaResponse(m *entities.MediaAsset) mediaResponse {
	return mediaResponse{
		ID:          m.ID,
		DeckID:      m.DeckID,
		FileName:    m.FileName,
		URL:         m.URL,
		MediaType:   string(m.MediaType),
		Attribution: m.Attribution,
		License:     m.License,
		Metadata:    m.Metadata,
	}
}

type studyResultRequest struct {
	CardID  int64 `json:"card_id" validate:"required,gt=0"`
	Correct bool  `json:"correct"`
}

type submitStudyRequest struct {
	DeckID  int64                `json:"deck_id" validate:"required,gt=0"`
	Results []studyResultRequest `json:"results" validate:"dive"`
}

type submitStudyResponse struct {
	Updated int `json:"updated"`
}

type reviewRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

type suspensionRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

func stageOf(s entities.LearningStage) *string {
	if s == entities.StageNone {
		return nil
	}
	v := string(s)
	return &v
}

type renderedCardResponse struct {
	ID             int64      `json:"id"`
	NoteID         int64      `json:"note_id"`
	CardTemplateID int64      `json:"card_template_id"`
	DeckID         int64      `json:"deck_id"`
	Mnemonic       *string    `json:"mnemonic"`
	Status         string     `json:"status"`
	Stage          *string    `json:"stage"`
	SrsInterval    int        `json:"srs_interval"`
	SrsEase        float64    `json:"srs_ease"`
	DueAt          *time.Time `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	TemplateName   string     `json:"template_name"`
}

func newRenderedCards(views []service.CardView) []renderedCardResponse {
	out := make([]renderedCardResponse, 0, len(views))
	for _, v := range views {
		out = append(out, renderedCardResponse{
			ID:             v.Card.ID,
			NoteID:         v.Card.NoteID,
			CardTemplateID: v.Card.CardTemplateID,
			DeckID:         v.DeckID,
			Mnemonic:       v.Card.Mnemonic,
			Status:         string(v.Schedule.Status),
			Stage:          stageOf(v.Schedule.Stage),
			SrsInterval:    v.Schedule.IntervalMinutes,
			SrsEase:        v.Schedule.Ease,
			DueAt:          v.Schedule.DueAt,
			LastReviewedAt: v.Schedule.LastReviewedAt,
			Reps:           v.Schedule.Reps,
			Lapses:         v.Schedule.Lapses,
			Front:          v.Front,
			Back:           v.Back,
			TemplateName:   v.TemplateName,
		})
	}
	return out
}

type studyBatchResponse struct {
	Cards []renderedCardResponse `json:"cards"`
}

type cardWithStatsResponse struct {
	ID             int64      `json:"id"`
	Front          string     `json:"front"`
	Status         string     `json:"status"`
	Stage          *string    `json:"stage"`
	DueAt          *time.Time `json:"due_at"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	SrsInterval    int        `json:"srs_interval"`
	SrsEase        float64    `json:"srs_ease"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
}

func newCardsWithStats(views []service.CardView) []cardWithStatsResponse {
	out := make([]cardWithStatsResponse, 0, len(views))
	for _, v := range views {
		out = append(out, cardWithStatsResponse{
			ID:             v.Card.ID,
			Front:          v.Front,
			Status:         string(v.Schedule.Status),
			Stage:          stageOf(v.Schedule.Stage),
			DueAt:          v.Schedule.DueAt,
			Reps:           v.Schedule.Reps,
			Lapses:         v.Schedule.Lapses,
			SrsInterval:    v.Schedule.IntervalMinutes,
			SrsEase:        v.Schedule.Ease,
			LastReviewedAt: v.Schedule.LastReviewedAt,
		})
	}
	return out
}

type progressResponse struct {
	CardID      int64      `json:"card_id"`
	Status      string     `json:"status"`
	Stage       *string    `json:"stage"`
	DueAt       *time.Time `json:"due_at"`
	SrsInterval int        `json:"srs_interval"`
	SrsEase     float64    `json:"srs_ease"`
	Reps        int        `json:"reps"`
	Lapses      int        `json:"lapses"`
}

func newProgressResponse(p *entities.UserCardProgress) progressResponse {
	return progressResponse{
		CardID:      p.CardID,
		Status:      string(p.Status),
		Stage:       stageOf(p.Stage),
		DueAt:       p.DueAt,
		SrsInterval: p.IntervalMinutes,
		SrsEase:     p.Ease,
		Reps:        p.Reps,
		Lapses:      p.Lapses,
	}
}

type reviewLogResponse struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	CardID           int64      `json:"card_id"`
	NoteID           int64      `json:"note_id"`
	DeckID           int64      `json:"deck_id"`
	Correct          bool       `json:"correct"`
	StageBefore      *string    `json:"stage_before"`
	StageAfter       *string    `json:"stage_after"`
	StatusAfter      string     `json:"status_after"`
	DueAtAfter       *time.Time `json:"due_at_after"`
	SrsIntervalAfter int        `json:"srs_interval_after"`
	SrsEaseAfter     float64    `json:"srs_ease_after"`
	RepsAfter        int        `json:"reps_after"`
	LapsesAfter      int        `json:"lapses_after"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newReviewLogs(logs []entities.CardReviewLog) []reviewLogResponse {
	out := make([]reviewLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, reviewLogResponse{
			ID:               l.ID,
			UserID:           l.UserID,
			CardID:           l.CardID,
			NoteID:           l.NoteID,
			DeckID:           l.DeckID,
			Correct:          l.Correct,
			StageBefore:      stageOf(l.StageBefore),
			StageAfter:       stageOf(l.StageAfter),
			StatusAfter:      string(l.StatusAfter),
			DueAtAfter:       l.DueAtAfter,
			SrsIntervalAfter: l.IntervalAfter,
			SrsEaseAfter:     l.EaseAfter,
			RepsAfter:        l.RepsAfter,
			LapsesAfter:      l.LapsesAfter,
			CreatedAt:        l.CreatedAt,
		})
	}
	return out
}

type deckStatsResponse struct {
	TotalCards        int            `json:"total_cards"`
	DueToday          int            `json:"due_today"`
	NextDueAt         *time.Time     `json:"next_due_at"`
	AvgReps           *float64       `json:"avg_reps"`
	TotalLapses       int            `json:"total_lapses"`
	AccuracyEstimate  *float64       `json:"accuracy_estimate"`
	StageDistribution map[string]int `json:"stage_distribution"`
	NewAvailable      int            `json:"new_available"`
}

func newDeckStatsResponse(s entities.DeckStats) deckStatsResponse {
	return deckStatsResponse{
		TotalCards:        s.TotalCards,
		DueToday:          s.DueToday,
		NextDueAt:         s.NextDueAt,
		AvgReps:           s.AvgReps,
		TotalLapses:       s.TotalLapses,
		AccuracyEstimate:  s.AccuracyEstimate,
		StageDistribution: s.StageDistribution,
		NewAvailable:      s.NewAvailable,
	}
}

type noteTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
	DeckID      *int64  `json:"deck_id" validate:"omitempty,gt=0"`
}

type noteTypeUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	DeckID      *int64  `json:"deck_id" validate:"omitempty,gt=0"`
}

type fieldRequest struct {
	Name       string         `json:"name" validate:"required,max=100"`
	Label      string         `json:"label" validate:"required,max=200"`
	FieldType  string         `json:"field_type" validate:"required,oneof=text rich_text image audio furigana json"`
	IsRequired *bool          `json:"is_required"`
	SortOrder  *int           `json:"sort_order" validate:"omitempty,min=0"`
	Hint       *string        `json:"hint"`
	Config     map[string]any `json:"config"`
}

type fieldUpdateRequest struct {
	Name       *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Label      *string        `json:"label" validate:"omitempty,max=200"`
	FieldType  *string        `json:"field_type" validate:"omitempty,oneof=text rich_text image audio furigana json"`
	IsRequired *bool          `json:"is_required"`
	SortOrder  *int           `json:"sort_order" validate:"omitempty,min=0"`
	Hint       *string        `json:"hint"`
	Config     map[string]any `json:"config"`
}

func (r fieldUpdateRequest) patch() service.FieldPatch {
	p := service.FieldPatch{
		Name:       r.Name,
		Label:      r.Label,
		IsRequired: r.IsRequired,
		SortOrder:  r.SortOrder,
		Hint:       r.Hint,
		Config:     r.Config,
	}
	if r.FieldType != nil {
		ft := entities.NoteFieldType(*r.FieldType)
		p.FieldType = &ft
	}
	return p
}

type templateRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	FrontTemplate string  `json:"front_template" validate:"required"`
	BackTemplate  string  `json:"back_template" validate:"required"`
	CSS           *string `json:"css"`
	IsActive      *bool   `json:"is_active"`
}

type templateUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	FrontTemplate *string `json:"front_template"`
	BackTemplate  *string `json:"back_template"`
	CSS           *string `json:"css"`
	IsActive      *bool   `json:"is_active"`
}

type fieldResponse struct {
	ID         int64          `json:"id"`
	NoteTypeID int64          `json:"note_type_id"`
	Name       string         `json:"name"`
	Label      string         `json:"label"`
	FieldType  string         `json:"field_type"`
	IsRequired bool           `json:"is_required"`
	SortOrder  int            `json:"sort_order"`
	Hint       *string        `json:"hint"`
	Config     map[string]any `json:"config"`
}

func newFieldResponse(f *entities.NoteField) fieldResponse {
	cfg := f.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	return fieldResponse{
		ID:         f.ID,
		NoteTypeID: f.NoteTypeID,
		Name:       f.Name,
		Label:      f.Label,
		FieldType:  string(f.FieldType),
		IsRequired: f.IsRequired,
		SortOrder:  f.SortOrder,
		Hint:       f.Hint,
		Config:     cfg,
	}
}

type templateResponse struct {
	ID            int64   `json:"id"`
	NoteTypeID    int64   `json:"note_type_id"`
	Name          string  `json:"name"`
	FrontTemplate string  `json:"front_template"`
	BackTemplate  string  `json:"back_template"`
	CSS           *string `json:"css"`
	IsActive      bool    `json:"is_active"`
}

func newTemplateResponse(t *entities.CardTemplate) templateResponse {
	return templateResponse{
		ID:            t.ID,
		NoteTypeID:    t.NoteTypeID,
		Name:          t.Name,
		FrontTemplate: t.FrontTemplate,
		BackTemplate:  t.BackTemplate,
		CSS:           t.CSS,
		IsActive:      t.IsActive,
	}
}

type noteTypeResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	DeckID      *int64             `json:"deck_id"`
	Fields      []fieldResponse    `json:"fields"`
	Templates   []templateResponse `json:"templates"`
}

func newNoteTypeResponse(nt *entities.NoteType) noteTypeResponse {
	resp := noteTypeResponse{
		ID:          nt.ID,
		Name:        nt.Name,
		Description: nt.Description,
		DeckID:      nt.DeckID,
		Fields:      make([]fieldResponse, 0, len(nt.Fields)),
		Templates:   make([]templateResponse, 0, len(nt.Templates)),
	}
	for i := range nt.Fields {
		resp.Fields = append(resp.Fields, newFieldResponse(&nt.Fields[i]))
	}
	for i := range nt.Templates {
		resp.Templates = append(resp.Templates, newTemplateResponse(&nt.Templates[i]))
	}
	return resp
}

type fieldValueRequest struct {
	FieldID      int64   `json:"field_id" validate:"required,gt=0"`
	ValueText    *string `json:"value_text"`
	MediaAssetID *int64  `json:"media_asset_id" validate:"omitempty,gt=0"`
}

type noteRequest struct {
	DeckID      int64               `json:"deck_id" validate:"required,gt=0"`
	NoteTypeID  int64               `json:"note_type_id" validate:"required,gt=0"`
	Tags        []string            `json:"tags"`
	FieldValues []fieldValueRequest `json:"field_values" validate:"dive"`
	Mnemonic    *string             `json:"mnemonic"`
}

func (r noteRequest) input() service.NoteInput {
	in := service.NoteInput{
		DeckID:     r.DeckID,
		NoteTypeID: r.NoteTypeID,
		Tags:       r.Tags,
		Mnemonic:   r.Mnemonic,
		Values:     make([]entities.NoteFieldValue, 0, len(r.FieldValues)),
	}
	for _, v := range r.FieldValues {
		in.Values = append(in.Values, entities.NoteFieldValue{
			FieldID:      v.FieldID,
			ValueText:    v.ValueText,
			MediaAssetID: v.MediaAssetID,
		})
	}
	return in
}

type fieldValueResponse struct {
	ID           int64   `json:"id"`
	NoteID       int64   `json:"note_id"`
	FieldID      int64   `json:"field_id"`
	FieldName    string  `json:"field_name,omitempty"`
	ValueText    *string `json:"value_text"`
	MediaAssetID *int64  `json:"media_asset_id"`
	MediaURL     *string `json:"media_url,omitempty"`
}

type noteResponse struct {
	ID          int64                `json:"id"`
	DeckID      int64                `json:"deck_id"`
	NoteTypeID  int64                `json:"note_type_id"`
	Tags        []string             `json:"tags"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	FieldValues []fieldValueResponse `json:"field_values"`
	CardIDs     []int64              `json:"card_ids,omitempty"`
}

func newNoteResponse(n *entities.Note, cards []*entities.Card) noteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := noteResponse{
		ID:          n.ID,
		DeckID:      n.DeckID,
		NoteTypeID:  n.NoteTypeID,
		Tags:        tags,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
		FieldValues: make([]fieldValueResponse, 0, len(n.FieldValues)),
	}
	for _, v := range n.FieldValues {
		resp.FieldValues = append(resp.FieldValues, fieldValueResponse{
			ID:           v.ID,
			NoteID:       v.NoteID,
			FieldID:      v.FieldID,
			FieldName:    v.FieldName,
			ValueText:    v.ValueText,
			MediaAssetID: v.MediaAssetID,
			MediaURL:     v.MediaURL,
		})
	}
	for _, c := range cards {
		resp.CardIDs = append(resp.CardIDs, c.ID)
	}
	return resp
}

type reminderRequest struct {
	IsEnabled      *bool   `json:"is_enabled"`
	IntervalHours  *int    `json:"interval_hours" validate:"omitempty,min=1,max=24"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	Timezone       *string `json:"timezone"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

type reminderResponse struct {
	IsEnabled      bool       `json:"is_enabled"`
	IntervalHours  int        `json:"interval_hours"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Timezone       string     `json:"timezone"`
	LastSentAt     *time.Time `json:"last_sent_at"`
	NextSendAt     *time.Time `json:"next_send_at"`
	TelegramChatID *int64     `json:"telegram_chat_id"`
}

func newReminderResponse(s *service.ReminderSettings) reminderResponse {
	return reminderResponse{
		IsEnabled:      s.IsEnabled,
		IntervalHours:  s.IntervalHours,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Timezone:       s.Timezone,
		LastSentAt:     s.LastSentAt,
		NextSendAt:     s.NextSendAt,
		TelegramChatID: s.TelegramChatID,
	}
}
