package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"campus-rental-client/internal/chat"
	"campus-rental-client/internal/domain"

	"github.com/spf13/cobra"
)

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Message item owners and renters",
	}

	cmd.AddCommand(newChatListCmd())
	cmd.AddCommand(newChatStartCmd())
	cmd.AddCommand(newChatHistoryCmd())
	cmd.AddCommand(newChatSendCmd())
	cmd.AddCommand(newChatListenCmd())

	return cmd
}

func newChatListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			convs, err := cliCtx.Chat.ListConversations(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(convs) == 0 {
				fmt.Fprintln(w, "No conversations.")
				return nil
			}
			self, _ := cliCtx.Session.RequireUser()
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tITEM\tWITH\tUNREAD\tLAST MESSAGE")
			for i := range convs {
				c := &convs[i]
				with := "-"
				if other := c.Counterpart(self.ID); other != nil {
					with = other.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, orDash(c.ItemName), with, c.UnreadCount, truncate(c.LastMessage, 40))
			}
			return tw.Flush()
		},
	}
}

func newChatStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <item-id>",
		Short: "Open a conversation with an item's owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			item, err := cliCtx.Catalog.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			conv, err := cliCtx.Chat.StartConversation(cmd.Context(), item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Conversation %s about %s.\n", conv.ID, item.Name)
			return nil
		},
	}
}

func newChatHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Show the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			msgs, err := cliCtx.Chat.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printMessage(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func newChatSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <conversation-id> <message>",
		Short: "Send one message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			conn, err := chat.Dial(cmd.Context(), cliCtx.Config.API.WebSocketURL, cliCtx.Session.Token())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Join(args[0]); err != nil {
				return err
			}
			if err := conn.Send(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			// Give the write pump a moment to flush before closing.
			select {
			case <-time.After(200 * time.Millisecond):
			case <-conn.Done():
				return conn.Err()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sent.")
			return nil
		},
	}
}

func newChatListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen <conversation-id>",
		Short: "Follow a conversation live; lines typed on stdin are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			conversationID := args[0]

			conn, err := chat.Dial(cmd.Context(), cliCtx.Config.API.WebSocketURL, cliCtx.Session.Token())
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := conn.Join(conversationID); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Connected. Type a message and press Enter; Ctrl+C to leave.")

			go func() {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					line := scanner.Text()
					if strings.TrimSpace(line) == "" {
						continue
					}
					if err := conn.Send(conversationID, line); err != nil {
						return
					}
				}
			}()

			for {
				select {
				case m, ok := <-conn.Messages():
					if !ok {
						return conn.Err()
					}
					if m.ConversationID == conversationID {
						printMessage(w, m)
					}
				case <-cmd.Context().Done():
					_ = conn.Leave(conversationID)
					return nil
				}
			}
		},
	}
}

func printMessage(w io.Writer, m domain.ChatMessage) {
	who := m.SenderName
	if who == "" {
		who = m.SenderID
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", m.SentAt.Local().Format("Jan 2 15:04"), who, m.Content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
