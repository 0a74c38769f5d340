package http

// voicePage is the browser chat. Speech recognition and synthesis run in the
// browser; the server only sees text through POST /message.
const voicePage = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>🌀 Spiral Voice Bot</title>
  </head>
  <body>
    <h2>🌀 Spiral Voice Assistant</h2>
    <div id="chat" style="height:300px;overflow:auto;border:1px solid #ccc;padding:10px;"></div>

    <input id="msg" type="text" placeholder="Type your message" style="width:70%;">
    <button id="send">Send</button>
    <button id="speak">🎤 Speak</button>

    <script>
      function addLine(who, text) {
        const line = document.createElement('div');
        const label = document.createElement('b');
        label.textContent = who + ': ';
        line.appendChild(label);
        line.appendChild(document.createTextNode(text));
        const chat = document.getElementById('chat');
        chat.appendChild(line);
        chat.scrollTop = chat.scrollHeight;
      }

      async function loadHistory() {
        const res = await fetch('/messages');
        if (!res.ok) return;
        const entries = await res.json();
        for (const e of entries) {
          addLine(e.from === 'user' ? 'You' : 'Bot', e.text);
        }
      }

      async function sendMessage(textOverride) {
        const msg = textOverride || document.getElementById('msg').value;
        if (!msg) return;

        const res = await fetch('/message', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({message: msg})
        });
        const data = await res.json();

        addLine('You', msg);
        addLine('Bot', data.reply);

        if ('speechSynthesis' in window) {
          speechSynthesis.speak(new SpeechSynthesisUtterance(data.reply));
        }
        document.getElementById('msg').value = '';
      }

      function startVoice() {
        const Recognition = window.SpeechRecognition || window.webkitSpeechRecognition;
        if (!Recognition) {
          alert('Voice input is not supported in this browser.');
          return;
        }
        const recognition = new Recognition();
        recognition.lang = 'en-US';
        recognition.interimResults = false;
        recognition.maxAlternatives = 1;

        recognition.onresult = (event) => {
          const voiceMsg = event.results[0][0].transcript;
          addLine('You (voice)', voiceMsg);
          sendMessage(voiceMsg);
        };
        recognition.onerror = (event) => {
          alert('Voice error: ' + event.error);
        };
        recognition.start();
      }

      document.getElementById('send').addEventListener('click', () => sendMessage());
      document.getElementById('speak').addEventListener('click', startVoice);
      document.getElementById('msg').addEventListener('keydown', (e) => {
        if (e.key === 'Enter') sendMessage();
      });
      loadHistory();
    </script>
  </body>
</html>
`
