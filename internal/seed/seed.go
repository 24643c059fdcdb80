// Package seed holds the built-in evaluation questionnaires that ship with
// the service. They are created on demand (CLI `seed` command or POST
// /v1/init) and skipped when a survey with the same title already exists.
package seed

import "survey-service/internal/app"

var defaultScale = []string{"Très insuffisant", "Insuffisant", "Satisfaisant", "Très satisfaisant", "Excellent"}

// DefaultSurveys returns the two built-in questionnaires: the 20-question
// congress MEAL evaluation and the 10-question event evaluation with
// per-question label sets.
func DefaultSurveys() []app.SurveyDraft {
	return []app.SurveyDraft{congressSurvey(), eventSurvey()}
}

func congressSurvey() app.SurveyDraft {
	return app.SurveyDraft{
		Title:       "Enquête d'Évaluation - Congrès",
		Description: "Questionnaire d'évaluation de satisfaction pour les participants",
		Segments: []app.SegmentDraft{
			{
				Title: "SEGMENT 1 : ORGANISATION GÉNÉRALE",
				Questions: rated(
					"Comment évaluez-vous la qualité globale de l'organisation logistique (accueil, orientation, gestion des flux) ?",
					"Comment jugez-vous la ponctualité et le respect du programme officiel ?",
					"Comment évaluez-vous la qualité de la communication avant et pendant l'événement (emails, site web, signalétique, application mobile) ?",
					"Comment évaluez-vous les conditions matérielles (salles, sonorisation, climatisation, confort) ?",
					"Comment jugez-vous la coordination générale et la réactivité de l'équipe organisatrice ?",
				),
			},
			{
				Title: "SEGMENT 2 : SCIENTIFIQUE",
				Questions: rated(
					"Comment évaluez-vous la pertinence des thématiques abordées par rapport aux enjeux actuels du secteur ?",
					"Comment jugez-vous la qualité scientifique des communications présentées ?",
					"Comment évaluez-vous la diversité et le niveau d'expertise des intervenants ?",
					"Comment jugez-vous l'équilibre entre théorie, innovation et applicabilité opérationnelle ?",
					"Comment évaluez-vous la valeur ajoutée scientifique globale du congrès pour votre institution ?",
				),
			},
			{
				Title: "SEGMENT 3 : EXPOSITION",
				Questions: rated(
					"Comment évaluez-vous la diversité et la qualité des exposants présents ?",
					"Comment jugez-vous l'organisation de l'espace d'exposition (circulation, visibilité, accessibilité) ?",
					"Comment évaluez-vous l'intérêt des solutions et innovations présentées ?",
					"Comment jugez-vous les opportunités de networking avec les exposants ?",
					"Comment évaluez-vous la contribution de l'exposition à la dynamique globale de l'événement ?",
				),
			},
			{
				Title: "SEGMENT 4 : AUTRE (IMPACT & PERSPECTIVES)",
				Questions: rated(
					"Comment évaluez-vous les opportunités de partenariats générées par cet événement ?",
					"Comment jugez-vous l'impact potentiel des recommandations issues des sessions ?",
					"Comment évaluez-vous la qualité des moments de réseautage (forums, rencontres B2B, pauses stratégiques) ?",
					"Comment jugez-vous la représentativité institutionnelle et géographique des participants ?",
					"Recommanderiez-vous cet événement à vos partenaires et collègues ?",
				),
			},
		},
	}
}

func eventSurvey() app.SurveyDraft {
	return app.SurveyDraft{
		Title:       "Évaluation d'un Évènement",
		Description: "Questionnaire d'évaluation d'un évènement avec 10 questions clés",
		Segments: []app.SegmentDraft{
			{
				Title: "Évaluation de l'Évènement",
				Questions: []app.QuestionDraft{
					{
						Text:         "Dans quelle mesure l'évènement a-t-il répondu à vos attentes globales ?",
						RatingLabels: []string{"Pas du tout", "Peu", "Moyennement", "Bien", "Très bien"},
					},
					{
						Text:         "Les thématiques abordées étaient-elles pertinentes au regard des défis actuels de votre secteur ou de votre institution ?",
						RatingLabels: []string{"Pas pertinentes", "Peu pertinentes", "Pertinentes", "Très pertinentes", "Essentielles"},
					},
					{
						Text:         "Comment évaluez-vous la qualité technique et scientifique des présentations et échanges ?",
						RatingLabels: []string{"Très faible", "Faible", "Moyenne", "Bonne", "Excellente"},
					},
					{
						Text:         "Quel est votre niveau de satisfaction concernant l'expertise et la crédibilité des intervenants ?",
						RatingLabels: []string{"Très insatisfaisant", "Insatisfaisant", "Acceptable", "Satisfaisant", "Très satisfaisant"},
					},
					{
						Text:         "Dans quelle mesure les connaissances acquises vous seront-elles utiles dans votre pratique professionnelle ?",
						RatingLabels: []string{"Aucune utilité", "Faible", "Moyenne", "Élevée", "Très élevée"},
					},
					{
						Text:         "Comment jugez-vous la qualité de l'animation, de la modération et de la gestion du temps ?",
						RatingLabels: []string{"Très mauvaise", "Mauvaise", "Acceptable", "Bonne", "Excellente"},
					},
					{
						Text:         "Le format de l'évènement a-t-il favorisé des échanges interactifs et la participation des participants ?",
						RatingLabels: []string{"Pas du tout", "Peu", "Moyennement", "Bien", "Très bien"},
					},
					{
						Text:         "Comment évaluez-vous l'organisation générale (accueil, logistique, communication, supports) ?",
						RatingLabels: []string{"Très insatisfaisante", "Insatisfaisante", "Acceptable", "Satisfaisante", "Très satisfaisante"},
					},
					{
						Text:         "Selon vous, quelle est la valeur ajoutée globale de cet évènement pour votre institution ou votre pays ?",
						RatingLabels: []string{"Nulle", "Faible", "Moyenne", "Importante", "Très importante"},
					},
					{
						Text:         "Recommanderiez-vous cet évènement à vos collègues ou partenaires professionnels ?",
						RatingLabels: []string{"Non, pas du tout", "Peu probable", "Probable", "Très probable", "Certainement"},
					},
				},
			},
		},
	}
}

func rated(texts ...string) []app.QuestionDraft {
	out := make([]app.QuestionDraft, 0, len(texts))
	for _, t := range texts {
		out = append(out, app.QuestionDraft{Text: t, RatingLabels: defaultScale})
	}
	return out
}
