package core

import (
	"github.com/bwmarrin/discordgo"
)

// GenericErrorMessage é a resposta para falhas inesperadas
const GenericErrorMessage = "❌ Une erreur est survenue."

// Responder centraliza as respostas de interação
type Responder struct {
	session *discordgo.Session
}

// NewResponder cria um novo responder
func NewResponder(session *discordgo.Session) *Responder {
	return &Responder{session: session}
}

// Ephemeral envia uma resposta de texto visível apenas ao autor
func (r *Responder) Ephemeral(i *discordgo.InteractionCreate, content string) error {
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// Public envia uma resposta de texto visível no canal
func (r *Responder) Public(i *discordgo.InteractionCreate, content string) error {
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// FollowUp envia uma mensagem adicional depois da resposta inicial
func (r *Responder) FollowUp(i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := r.session.FollowupMessageCreate(i.Interaction, true, params)
	return err
}

// Error responde com uma mensagem efêmera; se a interação já foi
// confirmada, usa um follow-up.
func (r *Responder) Error(i *discordgo.InteractionCreate, content string) error {
	if err := r.Ephemeral(i, content); err != nil {
		return r.FollowUp(i, content, true)
	}
	return nil
}
